package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name          string
		scope         string
		expectedScope string
		want          bool
	}{
		{
			name:          "has exact scope",
			scope:         "read:bookings",
			expectedScope: "read:bookings",
			want:          true,
		},
		{
			name:          "has scope in multiple scopes",
			scope:         "read:bookings write:bookings",
			expectedScope: "write:bookings",
			want:          true,
		},
		{
			name:          "does not have scope",
			scope:         "read:bookings",
			expectedScope: "write:bookings",
			want:          false,
		},
		{
			name:          "empty scope",
			scope:         "",
			expectedScope: "read:bookings",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := CustomClaims{Scope: tt.scope}
			got := claims.HasScope(tt.expectedScope)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantEmail string
		wantErr   bool
	}{
		{
			name: "successfully extracts email",
			setupFunc: func(c *gin.Context) {
				c.Set("user_email", "a@x.com")
			},
			wantEmail: "a@x.com",
			wantErr:   false,
		},
		{
			name: "email not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set user_email
			},
			wantErr: true,
		},
		{
			name: "empty email claim",
			setupFunc: func(c *gin.Context) {
				c.Set("user_email", "")
			},
			wantErr: true,
		},
		{
			name: "email is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_email", 12345)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotEmail, err := GetUserEmail(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotEmail)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantEmail, gotEmail)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Missing claims
	_, err := GetClaims(c)
	assert.Error(t, err)

	// Wrong type
	c.Set("validated_claims", "not-claims")
	_, err = GetClaims(c)
	assert.Error(t, err)

	// Valid claims
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: "auth0|123",
		},
		CustomClaims: &CustomClaims{Email: "a@x.com"},
	}
	c.Set("validated_claims", claims)
	got, err := GetClaims(c)
	assert.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin})
	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})

	tests := []struct {
		name           string
		email          string
		setEmail       bool
		roles          []string
		expectedStatus int
	}{
		{
			name:           "admin passes admin check",
			email:          "admin@x.com",
			setEmail:       true,
			roles:          []string{models.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "user fails admin check",
			email:          "user@x.com",
			setEmail:       true,
			roles:          []string{models.RoleAdmin},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "user passes multi-role check",
			email:          "user@x.com",
			setEmail:       true,
			roles:          []string{models.RoleAdmin, models.RoleUser},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "any registered user passes empty role check",
			email:          "user@x.com",
			setEmail:       true,
			roles:          nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown email is forbidden",
			email:          "ghost@x.com",
			setEmail:       true,
			roles:          nil,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing verified email is unauthorized",
			setEmail:       false,
			roles:          []string{models.RoleAdmin},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", func(c *gin.Context) {
				if tt.setEmail {
					c.Set("user_email", tt.email)
				}
				c.Next()
			}, RequireRole(tt.roles...), func(c *gin.Context) {
				user, err := GetCurrentUser(c)
				assert.NoError(t, err, "Handler should see the loaded user record")
				assert.Equal(t, tt.email, user.Email)
				c.JSON(http.StatusOK, gin.H{"success": true})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/protected", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus != http.StatusOK {
				var response map[string]interface{}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, false, response["success"])
			}
		})
	}
}

func TestRequireRole_NoStateChangeOnForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupAuthTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})

	handlerCalled := false
	router := gin.New()
	router.POST("/admin-only", func(c *gin.Context) {
		c.Set("user_email", "user@x.com")
		c.Next()
	}, RequireRole(models.RoleAdmin), func(c *gin.Context) {
		handlerCalled = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin-only", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerCalled, "Forbidden requests must never reach the handler")
}
