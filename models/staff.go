package models

import "time"

// Staff represents a shop employee allowed to use the API. Identity comes
// from the IdP (the Auth0 subject claim); the row is bootstrapped on first
// login from the IdP's userinfo data.
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Auth0ID   string    `gorm:"uniqueIndex;not null" json:"auth0_id"` // subject claim from the access token
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"not null;default:'staff'" json:"role"` // "staff" or "admin"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}
