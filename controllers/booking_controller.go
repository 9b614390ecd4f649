package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/middleware"
	"github.com/styledecor/styledecor-api/models"
	"github.com/styledecor/styledecor-api/utils"
	"gorm.io/gorm"
)

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ServiceID   *uint   `json:"serviceId" binding:"omitempty"`
	ServiceName string  `json:"service_name" binding:"required"`
	Cost        float64 `json:"cost" binding:"required,gt=0"`
	ServiceDate string  `json:"serviceDate" binding:"required"`
	Location    string  `json:"location" binding:"omitempty"`
}

// UpdateBookingRequest represents the request body for editing a booking
type UpdateBookingRequest struct {
	ServiceDate string `json:"serviceDate" binding:"omitempty"`
	Location    string `json:"location" binding:"omitempty"`
}

// AssignBookingRequest represents the request body for decorator assignment
type AssignBookingRequest struct {
	DecoratorEmail string `json:"decoratorEmail" binding:"required,email"`
}

// CreateBooking handles POST /new-booking - creates a booking for the
// caller with a fresh human-readable identifier and status "Payment Pending"
func CreateBooking(c *gin.Context) {
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

	var req CreateBookingRequest
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

	booking := models.Booking{
		BookingID:   utils.GenerateBookingID(),
		UserEmail:   user.Email,
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		Cost:        req.Cost,
		ServiceDate: req.ServiceDate,
		Location:    req.Location,
		Status:      models.BookingPaymentPending,
	}

	db := config.GetDB()
	if err := db.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create booking",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    booking,
	})
}

// UpdateBooking handles PATCH /booking/:id - edits serviceDate/location.
// Only the booking's owner may edit it.
func UpdateBooking(c *gin.Context) {
	_, booking, ok := ownedBooking(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
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

	updates := make(map[string]interface{})
	if req.ServiceDate != "" {
		updates["service_date"] = req.ServiceDate
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    booking,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(booking).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// CancelBooking handles PATCH /booking-cancel/:id - cancels an owned
// booking. "canceled" is terminal, so canceling twice is rejected.
func CancelBooking(c *gin.Context) {
	_, booking, ok := ownedBooking(c)
	if !ok {
		return
	}

	if booking.Status == models.BookingCanceled {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_CANCELED",
				"message": "Booking is already canceled",
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(booking).Update("status", models.BookingCanceled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// ListBookings handles GET /bookings - scope depends on the caller's role:
// admins see everything (optionally status-filtered), users see their own
// bookings, decorators see bookings assigned to them.
func ListBookings(c *gin.Context) {
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

	db := config.GetDB()
	query := db.Model(&models.Booking{})

	switch user.Role {
	case models.RoleAdmin:
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	case models.RoleDecorator:
		query = query.Where("decorator_email = ?", user.Email)
	default:
		query = query.Where("user_email = ?", user.Email)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list bookings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// AssignBooking handles PATCH /booking-assigned/:id - admin assigns a
// decorator. The booking status and the decorator's own status change
// together inside one store transaction, so a failure between the two
// writes rolls both back.
func AssignBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Booking id must be numeric",
			},
		})
		return
	}

	var req AssignBookingRequest
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

	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	if booking.Status != models.BookingPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Only paid (pending) bookings can be assigned",
			},
		})
		return
	}

	var decorator models.User
	if err := db.Where("email = ?", req.DecoratorEmail).First(&decorator).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DECORATOR_NOT_FOUND",
				"message": "Decorator not found",
			},
		})
		return
	}

	if decorator.Role != models.RoleDecorator {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_A_DECORATOR",
				"message": "Target user is not a decorator",
			},
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return applyAssignment(tx, &booking, &decorator)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to assign decorator",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// applyAssignment performs the two-document update of decorator
// assignment: the decorator's status and the booking's status plus
// decorator email. Callers are expected to run it inside a transaction;
// executed raw, a failure between the two writes leaves the documents
// inconsistent.
func applyAssignment(tx *gorm.DB, booking *models.Booking, decorator *models.User) error {
	if err := tx.Model(decorator).Update("status", "working").Error; err != nil {
		return err
	}
	return tx.Model(booking).Updates(map[string]interface{}{
		"status":          models.BookingAssigned,
		"decorator_email": decorator.Email,
	}).Error
}

// ownedBooking loads the booking named by the :id route parameter and
// verifies the caller owns it. On failure the response has already been
// written and ok is false.
func ownedBooking(c *gin.Context) (*models.User, *models.Booking, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "un-authorize access!",
			},
		})
		return nil, nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Booking id must be numeric",
			},
		})
		return nil, nil, false
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return nil, nil, false
	}

	if booking.UserEmail != user.Email {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "forbidden access!",
			},
		})
		return nil, nil, false
	}

	return user, &booking, true
}
