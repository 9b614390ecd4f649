package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a decoration service listing in the catalog
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ServiceName string         `gorm:"not null" json:"service_name"`
	Description string         `json:"description,omitempty"`
	Cost        float64        `gorm:"not null" json:"cost"`
	Unit        string         `json:"unit,omitempty"` // e.g. "per event", "per room"
	ImageS3Key  *string        `json:"image_s3_key,omitempty"`
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the photo
	Available   bool           `gorm:"not null;default:false" json:"available"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
