package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/middleware"
	"github.com/styledecor/styledecor-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// mockAuth simulates the JWT middleware for a verified email
func mockAuth(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_email", email)
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	router := gin.New()
	router.POST("/user", RegisterUser)

	// First registration creates the record with role "user"
	w := performJSON(router, "POST", "/user", map[string]interface{}{
		"name":  "Ayesha",
		"email": "ayesha@x.com",
		"photo": "https://img.example.com/a.png",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "user", data["role"], "New accounts always start with role user")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "ayesha@x.com").First(&stored).Error)
	firstLogin := stored.LastLoginAt

	// Give the timestamp room to move
	time.Sleep(5 * time.Millisecond)

	// Registering the same email again must not create a second record
	w = performJSON(router, "POST", "/user", map[string]interface{}{
		"name":  "Ayesha Again",
		"email": "ayesha@x.com",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Email already exists", response["message"])

	var count int64
	db.Model(&models.User{}).Where("email = ?", "ayesha@x.com").Count(&count)
	assert.Equal(t, int64(1), count, "Duplicate registration must never create a second record")

	require.NoError(t, db.Where("email = ?", "ayesha@x.com").First(&stored).Error)
	assert.Equal(t, "Ayesha", stored.Name, "Second call only refreshes lastLoginAt, not the profile")
	assert.True(t, stored.LastLoginAt.After(firstLogin), "lastLoginAt should be refreshed on duplicate registration")
}

func TestRegisterUser_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	router := gin.New()
	router.POST("/user", RegisterUser)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing email", map[string]interface{}{"name": "No Email"}},
		{"malformed email", map[string]interface{}{"email": "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, "POST", "/user", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateMyProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Old Name", Email: "me@x.com", Role: models.RoleUser})
	db.Create(&models.User{Name: "Other", Email: "other@x.com", Role: models.RoleUser})

	router := gin.New()
	router.PATCH("/update-user", mockAuth("me@x.com"), UpdateMyProfile)

	w := performJSON(router, "PATCH", "/update-user", map[string]interface{}{
		"name":  "New Name",
		"photo": "https://img.example.com/new.png",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var me models.User
	require.NoError(t, db.Where("email = ?", "me@x.com").First(&me).Error)
	assert.Equal(t, "New Name", me.Name)
	assert.Equal(t, "https://img.example.com/new.png", me.Photo)

	// The other account is untouched
	var other models.User
	require.NoError(t, db.Where("email = ?", "other@x.com").First(&other).Error)
	assert.Equal(t, "Other", other.Name)
}

func TestUpdateMyProfile_UnknownAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	router := gin.New()
	router.PATCH("/update-user", mockAuth("ghost@x.com"), UpdateMyProfile)

	w := performJSON(router, "PATCH", "/update-user", map[string]interface{}{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin})
	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})
	db.Create(&models.User{Name: "Busy Decorator", Email: "deco1@x.com", Role: models.RoleDecorator, Status: "working"})
	db.Create(&models.User{Name: "Free Decorator", Email: "deco2@x.com", Role: models.RoleDecorator})

	newRouter := func(caller string) *gin.Engine {
		router := gin.New()
		router.GET("/users", mockAuth(caller), middleware.RequireRole(models.RoleAdmin), ListUsers)
		return router
	}

	tests := []struct {
		name          string
		caller        string
		path          string
		expectedCode  int
		expectedCount int
	}{
		{"admin sees all", "admin@x.com", "/users", http.StatusOK, 4},
		{"role filter", "admin@x.com", "/users?role=decorator", http.StatusOK, 2},
		{"role and status filters combine with AND", "admin@x.com", "/users?role=decorator&status=working", http.StatusOK, 1},
		{"status filter alone", "admin@x.com", "/users?status=working", http.StatusOK, 1},
		{"non-admin is forbidden", "user@x.com", "/users", http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(newRouter(tt.caller), "GET", tt.path, nil)
			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Len(t, response["data"].([]interface{}), tt.expectedCount)
			}
		})
	}
}

func TestRefreshLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})
	var before models.User
	require.NoError(t, db.Where("email = ?", "user@x.com").First(&before).Error)

	time.Sleep(5 * time.Millisecond)

	router := gin.New()
	router.PATCH("/user/login", RefreshLogin)

	w := performJSON(router, "PATCH", "/user/login", map[string]interface{}{"email": "user@x.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var after models.User
	require.NoError(t, db.Where("email = ?", "user@x.com").First(&after).Error)
	assert.True(t, after.LastLoginAt.After(before.LastLoginAt))
}

func TestGetMyProfileAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})

	router := gin.New()
	router.GET("/users/me", mockAuth("user@x.com"), middleware.RequireRole(), GetMyProfile)
	router.GET("/user/role", mockAuth("user@x.com"), middleware.RequireRole(), GetMyRole)

	w := performJSON(router, "GET", "/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "user@x.com", data["email"])

	w = performJSON(router, "GET", "/user/role", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "user", data["role"])
}

func TestPromoteDecorator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	admin := models.User{Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin}
	db.Create(&admin)
	target := models.User{Name: "Future Decorator", Email: "target@x.com", Role: models.RoleUser}
	db.Create(&target)

	router := gin.New()
	router.PATCH("/add-decorator", mockAuth("admin@x.com"), middleware.RequireRole(models.RoleAdmin), PromoteDecorator)

	w := performJSON(router, "PATCH", "/add-decorator", map[string]interface{}{"userId": target.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var promoted models.User
	require.NoError(t, db.First(&promoted, target.ID).Error)
	assert.Equal(t, models.RoleDecorator, promoted.Role)

	// Unknown target
	w = performJSON(router, "PATCH", "/add-decorator", map[string]interface{}{"userId": 99999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromoteDecorator_NonAdminForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})
	target := models.User{Name: "Target", Email: "target@x.com", Role: models.RoleUser}
	db.Create(&target)

	router := gin.New()
	router.PATCH("/add-decorator", mockAuth("user@x.com"), middleware.RequireRole(models.RoleAdmin), PromoteDecorator)

	w := performJSON(router, "PATCH", "/add-decorator", map[string]interface{}{"userId": target.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.User
	require.NoError(t, db.First(&unchanged, target.ID).Error)
	assert.Equal(t, models.RoleUser, unchanged.Role, "Forbidden call must cause no state change")
}

func TestListDecorators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupUserTestDB(t)
	config.SetDB(db)

	db.Create(&models.User{Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin})
	db.Create(&models.User{Name: "Deco", Email: "deco@x.com", Role: models.RoleDecorator})
	db.Create(&models.User{Name: "Customer", Email: "user@x.com", Role: models.RoleUser})

	router := gin.New()
	router.GET("/decorators", mockAuth("admin@x.com"), middleware.RequireRole(models.RoleAdmin), ListDecorators)

	w := performJSON(router, "GET", "/decorators", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "deco@x.com", data[0].(map[string]interface{})["email"])
}
