package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ValueKind tags which variant an AttributeValue holds
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindChoice ValueKind = "choice" // a dropdown option that passed validation
)

// AttributeValue is the tagged representation of a schema-less property value.
// Incoming JSON scalars are parsed into either the text or number variant;
// the choice variant is only produced by validating a string against a
// dropdown property's options. Stored as a plain JSON scalar, so a choice
// round-trips from the database as text until it is validated again.
type AttributeValue struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// TextValue builds a text-variant value
func TextValue(s string) AttributeValue {
	return AttributeValue{Kind: KindText, Str: s}
}

// NumberValue builds a number-variant value
func NumberValue(n float64) AttributeValue {
	return AttributeValue{Kind: KindNumber, Num: n}
}

// ChoiceValue builds a choice-variant value
func ChoiceValue(s string) AttributeValue {
	return AttributeValue{Kind: KindChoice, Str: s}
}

// ParseAttributeValue normalizes a loosely-typed scalar (as decoded from
// JSON) into a tagged value. Booleans, arrays, objects and null are rejected:
// only strings and numbers are meaningful property values.
func ParseAttributeValue(raw interface{}) (AttributeValue, bool) {
	switch v := raw.(type) {
	case string:
		return TextValue(v), true
	case float64:
		return NumberValue(v), true
	case float32:
		return NumberValue(float64(v)), true
	case int:
		return NumberValue(float64(v)), true
	case int64:
		return NumberValue(float64(v)), true
	case uint:
		return NumberValue(float64(v)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return AttributeValue{}, false
		}
		return NumberValue(f), true
	default:
		return AttributeValue{}, false
	}
}

// IsString reports whether the value holds a string (text or choice variant)
func (v AttributeValue) IsString() bool {
	return v.Kind == KindText || v.Kind == KindChoice
}

// IsZero reports whether the value was never set
func (v AttributeValue) IsZero() bool {
	return v.Kind == ""
}

// Equal compares two values by variant and content
func (v AttributeValue) Equal(other AttributeValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	if v.Kind == KindNumber {
		return v.Num == other.Num
	}
	return v.Str == other.Str
}

// MarshalJSON writes the underlying scalar, not the tagged wrapper
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText, KindChoice:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return nil, fmt.Errorf("cannot marshal empty attribute value")
	}
}

// UnmarshalJSON reads a JSON scalar into the matching variant
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseAttributeValue(raw)
	if !ok {
		return fmt.Errorf("attribute value must be a string or a number, got %T", raw)
	}
	*v = parsed
	return nil
}

// Value implements driver.Valuer so the scalar is stored as JSON text
func (v AttributeValue) Value() (driver.Value, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (v *AttributeValue) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		*v = AttributeValue{}
		return nil
	case []byte:
		return v.UnmarshalJSON(data)
	case string:
		return v.UnmarshalJSON([]byte(data))
	default:
		return fmt.Errorf("cannot scan %T into AttributeValue", src)
	}
}

// StringList is an ordered list of strings stored as a JSON array column.
// Used for a dropdown property's options.
type StringList []string

// Contains reports whether the list holds the exact string (case-sensitive)
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// SelectedProperties maps a property id (as a string key, matching the JSON
// wire shape) to the value chosen for one order line item.
type SelectedProperties map[string]AttributeValue

// Value implements driver.Valuer
func (p SelectedProperties) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (p *SelectedProperties) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(data, p)
	case string:
		return json.Unmarshal([]byte(data), p)
	default:
		return fmt.Errorf("cannot scan %T into SelectedProperties", src)
	}
}
