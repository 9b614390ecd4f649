package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/styledecor/styledecor-api/config"
	"github.com/styledecor/styledecor-api/middleware"
	"github.com/styledecor/styledecor-api/models"
	"github.com/styledecor/styledecor-api/services"
	"gorm.io/gorm"
)

// CheckoutSessionRequest represents the request body for starting a payment
type CheckoutSessionRequest struct {
	ServiceName string  `json:"service_name" binding:"required"`
	BookingID   string  `json:"bookingId" binding:"required"`
	Cost        float64 `json:"cost" binding:"required,gt=0"`
	UserEmail   string  `json:"userEmail" binding:"required,email"`
}

// CreateCheckoutSession handles POST /checkout-session - creates a hosted
// checkout session at the payment provider, embedding the booking
// metadata needed for reconciliation, and returns the redirect handle.
func CreateCheckoutSession(c *gin.Context) {
	var req CheckoutSessionRequest
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

	cfg := config.GetConfig()
	checkout := services.GetCheckoutService()
	session, err := checkout.CreateSession(services.CheckoutSessionParams{
		ServiceName: req.ServiceName,
		BookingID:   req.BookingID,
		UserEmail:   req.UserEmail,
		Cost:        req.Cost,
		SuccessURL:  fmt.Sprintf("%s/dashboard/booking-confirmed?session_id={CHECKOUT_SESSION_ID}", cfg.ClientBaseURL),
		CancelURL:   fmt.Sprintf("%s/dashboard/payment-canceled", cfg.ClientBaseURL),
	})
	if err != nil {
		log.Printf("Failed to create checkout session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHECKOUT_ERROR",
				"message": "Failed to create checkout session",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// ConfirmPayment handles POST /payment-success - retrieves the completed
// checkout session and reconciles it: the first call for a bookingId
// marks the booking paid and records the payment; repeat calls are
// idempotent no-ops. The writes run before the response so a store
// failure surfaces to the caller instead of being swallowed.
func ConfirmPayment(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_SESSION_ID",
				"message": "session_id query parameter is required",
			},
		})
		return
	}

	checkout := services.GetCheckoutService()
	session, err := checkout.RetrieveSession(sessionID)
	if err != nil {
		log.Printf("Failed to retrieve checkout session %s: %v", sessionID, err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Payment issue, please contact with support!",
		})
		return
	}

	payment := models.Payment{
		BookingID:     session.Metadata["bookingId"],
		ServiceName:   session.Metadata["service_name"],
		UserEmail:     session.Metadata["userEmail"],
		TransactionID: session.PaymentIntent,
		Cost:          session.AmountTotal,
	}

	db := config.GetDB()
	duplicate := false
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		err := tx.Where("booking_id = ?", payment.BookingID).First(&existing).Error
		if err == nil {
			// Already reconciled; nothing further to do
			duplicate = true
			payment = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Model(&models.Booking{}).
			Where("booking_id = ?", payment.BookingID).
			Updates(map[string]interface{}{
				"status":         models.BookingPending,
				"payment_status": "paid",
			}).Error; err != nil {
			return err
		}

		return tx.Create(&payment).Error
	})
	if err != nil {
		log.Printf("Failed to record payment for booking %s: %v", payment.BookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record payment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"duplicate": duplicate,
		"data":      payment,
	})
}

// ListPayments handles GET /payments - admins see every payment, other
// callers only their own
func ListPayments(c *gin.Context) {
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
	query := db.Model(&models.Payment{})
	if user.Role != models.RoleAdmin {
		query = query.Where("user_email = ?", user.Email)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list payments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payments,
	})
}
