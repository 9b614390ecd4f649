package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/services"
	"github.com/styledecor/styledecor-api/utils"
)

// UploadServiceImage handles POST /service-image - admin uploads a
// decoration photo for the catalog. Returns the storage key to attach to
// a service and a presigned URL for preview.
func UploadServiceImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload image",
			},
		})
		return
	}

	imageURL, err := imageService.GetImageURL(imageKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to generate image URL",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"image_s3_key": imageKey,
			"image_url":    imageURL,
		},
	})
}
