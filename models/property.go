package models

import (
	"fmt"
	"strings"
)

// Value types a property definition may declare
const (
	ValueTypeText     = "text"
	ValueTypeNumber   = "number"
	ValueTypeDropdown = "dropdown"
)

// Property is a named, typed attribute definition owned by a product. The
// IsCustomerSpecific flag decides whether its value lives on the customer's
// profile (filled once, reused across orders) or is chosen anew on every
// order line item.
type Property struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	ProductID          uint       `gorm:"not null;index" json:"product"`
	Product            Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Name               string     `gorm:"not null" json:"name"`
	ValueType          string     `gorm:"not null" json:"value_type"`
	PossibleValues     StringList `gorm:"type:text" json:"possible_values"` // dropdown options, ordered
	IsCustomerSpecific bool       `gorm:"not null;default:false" json:"is_customer_specific"`
}

// TableName specifies the table name for the Property model
func (Property) TableName() string {
	return "properties"
}

// Validate checks the property definition itself: non-empty name, a known
// value type, and the dropdown/possible_values pairing (dropdowns must list
// options, text and number must not).
func (p *Property) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", &FieldError{
			Code:    ErrCodeInvalidFormat,
			Message: "Property name cannot be empty.",
		})
	}

	switch p.ValueType {
	case ValueTypeText, ValueTypeNumber:
		if len(p.PossibleValues) > 0 {
			errs.Add("possible_values", &FieldError{
				Code:    ErrCodeInvalidFormat,
				Message: "Only dropdown properties can define possible values.",
			})
		}
	case ValueTypeDropdown:
		if len(p.PossibleValues) == 0 {
			errs.Add("possible_values", &FieldError{
				Code:    ErrCodeInvalidFormat,
				Message: "Dropdown properties must define a non-empty list of options.",
			})
		}
	default:
		errs.Add("value_type", &FieldError{
			Code:    ErrCodeInvalidChoice,
			Message: fmt.Sprintf("Value type must be one of: %s, %s, %s.", ValueTypeText, ValueTypeNumber, ValueTypeDropdown),
			Allowed: []string{ValueTypeText, ValueTypeNumber, ValueTypeDropdown},
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckValue validates a candidate value against this property's declared
// type and returns the normalized variant. Pure decision function: it never
// mutates the property or the candidate.
//
// A dropdown with no options accepts nothing; the creation-time invariant
// should make that impossible, but the check does not rely on it.
func (p *Property) CheckValue(candidate AttributeValue) (AttributeValue, *FieldError) {
	switch p.ValueType {
	case ValueTypeNumber:
		if candidate.Kind != KindNumber {
			return AttributeValue{}, &FieldError{
				Code:    ErrCodeInvalidType,
				Message: fmt.Sprintf("%s must be a number", p.Name),
			}
		}
		return candidate, nil

	case ValueTypeText:
		if !candidate.IsString() {
			return AttributeValue{}, &FieldError{
				Code:    ErrCodeInvalidType,
				Message: fmt.Sprintf("%s must be text", p.Name),
			}
		}
		return TextValue(candidate.Str), nil

	case ValueTypeDropdown:
		if !candidate.IsString() {
			return AttributeValue{}, &FieldError{
				Code:    ErrCodeInvalidType,
				Message: fmt.Sprintf("%s must be one of its dropdown options", p.Name),
				Allowed: p.PossibleValues,
			}
		}
		if !p.PossibleValues.Contains(candidate.Str) {
			return AttributeValue{}, &FieldError{
				Code:    ErrCodeInvalidChoice,
				Message: fmt.Sprintf("Invalid choice '%s' for %s", candidate.Str, p.Name),
				Allowed: p.PossibleValues,
			}
		}
		return ChoiceValue(candidate.Str), nil

	default:
		return AttributeValue{}, &FieldError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("%s has an unknown value type", p.Name),
		}
	}
}
