package services

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/dressmake/tailorshop-api/models"
)

// Attribute write paths. Both run against the transaction that will perform
// the eventual insert or update, so the property a value is validated against
// cannot be deleted or retyped underneath the write.
//
// Order of checks, per value: resolve the property, check its scope, then
// check the value against the property's type. Scope comes first so an
// out-of-scope property is never type-checked against a foreign context.

// ValidateProfileValue validates a value headed for a customer's profile.
// The property must exist and be customer-specific. Returns the normalized
// value, field-keyed errors ("property" for resolution/scope failures,
// "value" for type failures), or a plain error when storage itself fails —
// that last case is the caller's fault in no way and must not surface as a
// validation response.
func ValidateProfileValue(tx *gorm.DB, propertyID uint, raw interface{}) (models.AttributeValue, models.FieldErrors, error) {
	var prop models.Property
	if err := tx.First(&prop, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AttributeValue{}, models.FieldErrors{
				"property": {
					Code:    models.ErrCodeUnknownProperty,
					Message: fmt.Sprintf("Property %d does not exist", propertyID),
				},
			}, nil
		}
		return models.AttributeValue{}, nil, fmt.Errorf("resolve property %d: %w", propertyID, err)
	}

	if scopeErr := models.CheckPropertyScope(&prop, models.ProfileScope, 0); scopeErr != nil {
		return models.AttributeValue{}, models.FieldErrors{"property": scopeErr}, nil
	}

	candidate, ok := models.ParseAttributeValue(raw)
	if !ok {
		return models.AttributeValue{}, models.FieldErrors{
			"value": {
				Code:    models.ErrCodeInvalidType,
				Message: fmt.Sprintf("%s must be a string or a number", prop.Name),
			},
		}, nil
	}

	normalized, valueErr := prop.CheckValue(candidate)
	if valueErr != nil {
		return models.AttributeValue{}, models.FieldErrors{"value": valueErr}, nil
	}

	return normalized, nil, nil
}

// ValidateSelectedProperties validates an order line item's customization
// map. Every key must identify an order-specific property of the item's
// product and every value must match that property's type. The write fails
// as a whole on the first offending entry; nothing is applied partially.
func ValidateSelectedProperties(tx *gorm.DB, productID uint, raw map[string]interface{}) (models.SelectedProperties, models.FieldErrors, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	selected := make(models.SelectedProperties, len(raw))
	for key, rawValue := range raw {
		propertyID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, models.FieldErrors{
				"selected_properties": {
					Code:    models.ErrCodeUnknownProperty,
					Message: fmt.Sprintf("Invalid property ID %q for product %d", key, productID),
				},
			}, nil
		}

		var prop models.Property
		if err := tx.First(&prop, uint(propertyID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.FieldErrors{
					"selected_properties": {
						Code:    models.ErrCodeUnknownProperty,
						Message: fmt.Sprintf("Invalid property ID %s for product %d", key, productID),
					},
				}, nil
			}
			return nil, nil, fmt.Errorf("resolve property %s: %w", key, err)
		}

		if scopeErr := models.CheckPropertyScope(&prop, models.OrderScope, productID); scopeErr != nil {
			return nil, models.FieldErrors{"selected_properties": scopeErr}, nil
		}

		candidate, ok := models.ParseAttributeValue(rawValue)
		if !ok {
			return nil, models.FieldErrors{
				"selected_properties": {
					Code:    models.ErrCodeInvalidType,
					Message: fmt.Sprintf("'%s' must be a string or a number", prop.Name),
				},
			}, nil
		}

		normalized, valueErr := prop.CheckValue(candidate)
		if valueErr != nil {
			return nil, models.FieldErrors{"selected_properties": valueErr}, nil
		}

		selected[key] = normalized
	}

	return selected, nil, nil
}
