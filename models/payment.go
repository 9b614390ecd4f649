package models

import (
	"time"
)

// Payment represents a confirmed checkout payment. The unique BookingID
// index is the idempotency guard: reconciling the same checkout session
// twice must never produce a second record.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookingID     string    `gorm:"uniqueIndex;not null" json:"bookingId"`
	ServiceName   string    `json:"service_name"`
	UserEmail     string    `gorm:"index;not null" json:"userEmail"`
	TransactionID string    `json:"transactionId"`
	Cost          int64     `json:"cost"` // amount in minor units, as reported by the provider
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
