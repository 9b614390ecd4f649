package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, email string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Email: email,
		},
	}
}

// MockAuthMiddleware returns a middleware that simulates a validated
// bearer token for the given email, setting up the context exactly as the
// real EnsureValidToken middleware does.
func MockAuthMiddleware(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := MockValidatedClaims("auth0|"+email, "https://test.auth0.com/", email)
		c.Set("user_email", email)
		c.Set("access_token", "test-token-"+email)
		c.Set("validated_claims", claims)
		c.Next()
	}
}
