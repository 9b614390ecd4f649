package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status values. A booking starts as BookingPaymentPending,
// becomes BookingPending once paid, BookingAssigned once an admin
// assigns a decorator, and BookingCanceled is terminal.
const (
	BookingPaymentPending = "Payment Pending"
	BookingPending        = "pending"
	BookingAssigned       = "assigned"
	BookingCanceled       = "canceled"
)

// Booking represents a decoration booking placed by a user
type Booking struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	BookingID      string         `gorm:"index;not null" json:"bookingId"` // human-readable identifier, SD- plus 5 digits
	UserEmail      string         `gorm:"index;not null" json:"userEmail"`
	ServiceID      *uint          `gorm:"index" json:"serviceId,omitempty"`
	ServiceName    string         `json:"service_name"`
	Cost           float64        `json:"cost"`
	ServiceDate    string         `json:"serviceDate"`
	Location       string         `json:"location"`
	Status         string         `gorm:"not null;default:'Payment Pending'" json:"status"`
	PaymentStatus  string         `json:"paymentStatus,omitempty"` // "paid" once reconciled
	DecoratorEmail *string        `gorm:"index" json:"decoratorEmail,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
