package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/models"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
	Email string `json:"email"`
}

// Validate does nothing for this example, but we need
// it to satisfy validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	result := strings.Split(c.Scope, " ")
	for i := range result {
		if result[i] == expectedScope {
			return true
		}
	}

	return false
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// A missing or empty Authorization header is rejected with 401; a token
// that fails verification is rejected with 403.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		log.Fatalf("Failed to parse the issuer url: %v", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"forbidden access!"}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	jwtMiddleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(strings.Fields(authHeader)) < 2 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "un-authorize access!",
				},
			})
			c.Abort()
			return
		}

		handled := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			handled = true

			// Store the validated claims in Gin context
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			// Extract the verified email from the custom claims
			email := ""
			if customClaims, ok := token.CustomClaims.(*CustomClaims); ok {
				email = customClaims.Email
			}
			c.Set("user_email", email)
			c.Set("access_token", strings.Fields(authHeader)[1])
			c.Set("validated_claims", token)

			c.Next()
		}

		// Use the JWT middleware to check the token
		jwtMiddleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler wrote the response directly; stop the chain
		if !handled {
			c.Abort()
		}
	}
}

// GetUserEmail extracts the verified email from the Gin context
func GetUserEmail(c *gin.Context) (string, error) {
	email, exists := c.Get("user_email")
	if !exists {
		return "", &AuthError{Code: "MISSING_EMAIL", Message: "Email not found in context"}
	}

	emailStr, ok := email.(string)
	if !ok || emailStr == "" {
		return "", &AuthError{Code: "INVALID_EMAIL", Message: "Email claim is missing or empty"}
	}

	return emailStr, nil
}

// GetAccessToken extracts the raw bearer token from the Gin context
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get("access_token")
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Access token is not a string"}
	}

	return tokenStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireRole is a middleware that re-reads the caller's user record by
// verified email and checks it against the allowed roles. With no roles
// listed, any registered user passes. The role stored in the database is
// the sole authorization source; nothing is taken from token claims
// beyond the email.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := GetUserEmail(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "un-authorize access!",
				},
			})
			c.Abort()
			return
		}

		db := config.GetDB()
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "forbidden access!",
				},
			})
			c.Abort()
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "FORBIDDEN",
						"message": "forbidden access!",
					},
				})
				c.Abort()
				return
			}
		}

		c.Set("current_user", &user)
		c.Next()
	}
}

// GetCurrentUser extracts the user record loaded by RequireRole
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("current_user")
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User record not found in context"}
	}

	userRecord, ok := user.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User record is not in the expected format"}
	}

	return userRecord, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
