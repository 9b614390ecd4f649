package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/models"
	"github.com/styledecor/styledecor-api/services"
)

// CreateServiceRequest represents the request body for creating a service listing
type CreateServiceRequest struct {
	ServiceName string  `json:"service_name" binding:"required"`
	Description string  `json:"description" binding:"omitempty"`
	Cost        float64 `json:"cost" binding:"required,gt=0"`
	Unit        string  `json:"unit" binding:"omitempty"`
	ImageS3Key  *string `json:"image_s3_key" binding:"omitempty"`
	Available   bool    `json:"available"`
}

// CreateService handles POST /service - creates a service listing (admin only)
func CreateService(c *gin.Context) {
	var req CreateServiceRequest
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

	service := models.Service{
		ServiceName: req.ServiceName,
		Description: req.Description,
		Cost:        req.Cost,
		Unit:        req.Unit,
		ImageS3Key:  req.ImageS3Key,
		Available:   req.Available,
	}

	db := config.GetDB()
	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteService handles DELETE /service/:id - removes a listing (admin only)
func DeleteService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Service id must be numeric",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": service.ID,
		},
	})
}

// ListServices handles GET /services - public listing of available services
func ListServices(c *gin.Context) {
	db := config.GetDB()
	var serviceList []models.Service
	if err := db.Where("available = ?", true).Find(&serviceList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list services",
			},
		})
		return
	}

	attachImageURLs(serviceList)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceList,
	})
}

// GetService handles GET /service/:id - public fetch of a single service.
// Intentionally no availability filter: a direct link can view an
// unlisted service.
func GetService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Service id must be numeric",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil && service.ImageS3Key != nil {
		if url, err := imageService.GetImageURL(*service.ImageS3Key); err == nil && url != "" {
			service.ImageURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// attachImageURLs fills the computed ImageURL field with presigned URLs
func attachImageURLs(serviceList []models.Service) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range serviceList {
		if serviceList[i].ImageS3Key == nil {
			continue
		}
		url, err := imageService.GetImageURL(*serviceList[i].ImageS3Key)
		if err != nil || url == "" {
			continue
		}
		serviceList[i].ImageURL = &url
	}
}
