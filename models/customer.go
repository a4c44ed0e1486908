package models

import (
	"time"
	"unicode"
)

// Customer represents a customer of the shop. Phone is optional but unique
// among customers that have one; it is kept as a fixed-format digit string so
// the leading zero survives.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Phone     *string   `gorm:"uniqueIndex" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Validate checks name and phone formats. Names must be non-empty after
// trimming and contain only letters (any script, Persian included), spaces,
// or hyphens. Phone, when present, must be exactly 11 digits starting with 0.
func (c *Customer) Validate() FieldErrors {
	errs := FieldErrors{}

	checkName(errs, "first_name", "First name", c.FirstName)
	checkName(errs, "last_name", "Last name", c.LastName)

	if c.Phone != nil && *c.Phone != "" {
		if !validPhone(*c.Phone) {
			errs.Add("phone", &FieldError{
				Code:    ErrCodeInvalidFormat,
				Message: "Phone number must start with 0 and be exactly 11 digits.",
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkName(errs FieldErrors, field, label, value string) {
	trimmed := false
	for _, r := range value {
		if !unicode.IsSpace(r) {
			trimmed = true
			break
		}
	}
	if !trimmed {
		errs.Add(field, &FieldError{
			Code:    ErrCodeInvalidFormat,
			Message: label + " cannot be empty.",
		})
		return
	}
	for _, r := range value {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			errs.Add(field, &FieldError{
				Code:    ErrCodeInvalidFormat,
				Message: label + " must only contain letters, spaces, or hyphens.",
			})
			return
		}
	}
}

func validPhone(phone string) bool {
	if len(phone) != 11 || phone[0] != '0' {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
