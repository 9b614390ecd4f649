package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/middleware"
	"github.com/styledecor/styledecor-api/models"
)

// RegisterUserRequest represents the request body for registering a user
type RegisterUserRequest struct {
	Name   string `json:"name" binding:"omitempty"`
	Email  string `json:"email" binding:"required,email"`
	Photo  string `json:"photo" binding:"omitempty"`
	Status string `json:"status" binding:"omitempty"`
}

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name   string `json:"name" binding:"omitempty"`
	Photo  string `json:"photo" binding:"omitempty"`
	Status string `json:"status" binding:"omitempty"`
}

// RefreshLoginRequest represents the request body for refreshing lastLoginAt
type RefreshLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PromoteDecoratorRequest represents the request body for promoting a user
type PromoteDecoratorRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// RegisterUser handles POST /user - registers a new account or refreshes
// the login timestamp of an existing one. Registering the same email twice
// never creates a second record.
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var existing models.User
	err := db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		// Known account: only refresh the login timestamp
		if err := db.Model(&existing).Update("last_login_at", time.Now()).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to refresh login",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Email already exists",
			"data":    existing,
		})
		return
	}

	user := models.User{
		Name:        req.Name,
		Email:       req.Email,
		Photo:       req.Photo,
		Status:      req.Status,
		Role:        models.RoleUser,
		LastLoginAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMyProfile handles PATCH /update-user - updates the caller's own record.
// The target record comes from the verified token email, never the body.
func UpdateMyProfile(c *gin.Context) {
	email, err := middleware.GetUserEmail(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "un-authorize access!",
			},
		})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Photo != "" {
		updates["photo"] = req.Photo
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    user,
		})
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update user profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListUsers handles GET /users - admin-only listing with optional role
// and status query filters combined with AND
func ListUsers(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// RefreshLogin handles PATCH /user/login - refreshes lastLoginAt by email
func RefreshLogin(c *gin.Context) {
	var req RefreshLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	result := db.Model(&models.User{}).Where("email = ?", req.Email).Update("last_login_at", time.Now())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to refresh login",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"updated": result.RowsAffected,
		},
	})
}

// GetMyProfile handles GET /users/me - returns the caller's own record
func GetMyProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "un-authorize access!",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyRole handles GET /user/role - returns the caller's role
func GetMyRole(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "un-authorize access!",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"role": user.Role,
		},
	})
}

// PromoteDecorator handles PATCH /add-decorator - admin-only promotion of
// a user to the decorator role
func PromoteDecorator(c *gin.Context) {
	var req PromoteDecoratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if err := db.Model(&user).Update("role", models.RoleDecorator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to promote user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListDecorators handles GET /decorators - admin-only listing of all
// decorator accounts
func ListDecorators(c *gin.Context) {
	db := config.GetDB()
	var decorators []models.User
	if err := db.Where("role = ?", models.RoleDecorator).Find(&decorators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list decorators",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    decorators,
	})
}
