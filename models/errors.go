package models

import (
	"sort"
	"strings"
)

// Error codes used in field-keyed validation errors. Controllers translate
// these into HTTP responses; DUPLICATE maps to 409, everything else to 400.
const (
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeInvalidType     = "INVALID_TYPE"
	ErrCodeInvalidChoice   = "INVALID_CHOICE"
	ErrCodeWrongScope      = "WRONG_SCOPE"
	ErrCodeUnknownProperty = "UNKNOWN_PROPERTY"
	ErrCodeOutOfRange      = "OUT_OF_RANGE"
	ErrCodeDuplicate       = "DUPLICATE"
	ErrCodeRequired        = "REQUIRED"
)

// FieldError describes a single validation failure on one field
type FieldError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"` // populated for dropdown choice errors
}

func (e *FieldError) Error() string {
	return e.Message
}

// FieldErrors maps a field name to its validation failure. A nil or empty map
// means the entity passed validation.
type FieldErrors map[string]*FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field].Message)
	}
	return strings.Join(parts, "; ")
}

// Add records an error for a field, keeping the first one if the field
// already failed
func (e FieldErrors) Add(field string, err *FieldError) {
	if _, exists := e[field]; !exists {
		e[field] = err
	}
}

// HasCode reports whether any field failed with the given code
func (e FieldErrors) HasCode(code string) bool {
	for _, err := range e {
		if err.Code == code {
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether a database error is a unique constraint
// violation. Works with both PostgreSQL and SQLite error strings, same as the
// duplicate checks in the HTTP layer.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
