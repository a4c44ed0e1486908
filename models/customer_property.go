package models

// CustomerProperty is a customer's persisted value for one customer-specific
// property (a measurement or a standing preference). At most one row may
// exist per (customer, property) pair; the unique index is the authority so
// concurrent writers cannot slip past an application-level pre-check.
type CustomerProperty struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CustomerID uint           `gorm:"not null;uniqueIndex:idx_customer_property" json:"customer"`
	Customer   Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	PropertyID uint           `gorm:"not null;uniqueIndex:idx_customer_property" json:"property"`
	Property   Property       `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	Value      AttributeValue `gorm:"type:text;not null" json:"value"`

	// Read-only fields surfaced in API responses when Property is preloaded
	PropertyName string `gorm:"-" json:"property_name,omitempty"`
	PropertyType string `gorm:"-" json:"property_type,omitempty"`
}

// TableName specifies the table name for the CustomerProperty model
func (CustomerProperty) TableName() string {
	return "customer_properties"
}

// FillPropertyInfo populates the read-only property fields from the
// preloaded association
func (cp *CustomerProperty) FillPropertyInfo() {
	if cp.Property.ID != 0 {
		cp.PropertyName = cp.Property.Name
		cp.PropertyType = cp.Property.ValueType
	}
}
