package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assignable to a user. RoleUser is the default on
// registration; RoleDecorator is granted by an admin.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleDecorator = "decorator"
)

// User represents a registered account (customer, admin or decorator)
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `json:"name"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Photo       string         `json:"photo,omitempty"`
	Role        string         `gorm:"not null;default:'user'" json:"role"` // "user", "admin" or "decorator"
	Status      string         `json:"status,omitempty"`                    // e.g. "working" once assigned to a booking
	CreatedAt   time.Time      `json:"createdAt"`
	LastLoginAt time.Time      `json:"lastLoginAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
