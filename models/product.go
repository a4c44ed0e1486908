package models

import (
	"strings"
	"time"
)

// Product represents a garment type the shop tailors (shirt, pants, ...).
// It owns a set of property definitions describing what can be customized.
type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description *string    `json:"description"`
	Properties  []Property `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Validate checks that the name is not empty or just whitespace
func (p *Product) Validate() FieldErrors {
	if strings.TrimSpace(p.Name) == "" {
		return FieldErrors{
			"name": {
				Code:    ErrCodeInvalidFormat,
				Message: "Product name cannot be empty.",
			},
		}
	}
	return nil
}
