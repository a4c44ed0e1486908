package models

import "fmt"

// WriteScope identifies which write path an attribute value is headed for
type WriteScope int

const (
	// ProfileScope is a write to a customer's persistent profile
	ProfileScope WriteScope = iota
	// OrderScope is a write to one order line item's selected properties
	OrderScope
)

// CheckPropertyScope decides whether a property may be written in the given
// scope. Profile writes require a customer-specific property; order writes
// require an order-specific property that belongs to the item's product
// (productID is ignored for profile writes).
//
// Scope is checked before the value itself: an out-of-scope property must not
// be type-checked against a foreign context.
func CheckPropertyScope(prop *Property, scope WriteScope, productID uint) *FieldError {
	switch scope {
	case ProfileScope:
		if !prop.IsCustomerSpecific {
			return &FieldError{
				Code:    ErrCodeWrongScope,
				Message: fmt.Sprintf("Property '%s' is not customer-specific and cannot be stored here.", prop.Name),
			}
		}
	case OrderScope:
		if prop.IsCustomerSpecific {
			return &FieldError{
				Code:    ErrCodeWrongScope,
				Message: fmt.Sprintf("Property '%s' is customer-specific and cannot be set per order.", prop.Name),
			}
		}
		if prop.ProductID != productID {
			return &FieldError{
				Code:    ErrCodeUnknownProperty,
				Message: fmt.Sprintf("Invalid property ID %d for product %d", prop.ID, productID),
			}
		}
	}
	return nil
}
