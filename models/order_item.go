package models

// OrderItem is one garment line on an order: a product, a quantity, and the
// customization choices made for this order (order-specific properties only;
// customer-specific values live on the customer's profile instead).
type OrderItem struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	OrderID            uint               `gorm:"not null;index" json:"order"`
	Order              Order              `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	CustomerID         uint               `gorm:"not null;index" json:"customer"`
	Customer           Customer           `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID          uint               `gorm:"not null;index" json:"product"`
	Product            Product            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity           int                `gorm:"not null;default:1" json:"quantity"`
	Note               *string            `json:"note"`
	SelectedProperties SelectedProperties `gorm:"type:text" json:"selected_properties"`
	ImageS3Key         *string            `json:"image_s3_key"`             // S3 key of the uploaded reference photo
	ImageURL           *string            `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Validate checks the structural invariants of the line item itself. The
// selected properties map needs database lookups (property ownership and
// scope) and is validated by the attribute service inside the write
// transaction.
func (i *OrderItem) Validate() FieldErrors {
	if i.Quantity < 1 {
		return FieldErrors{
			"quantity": {
				Code:    ErrCodeOutOfRange,
				Message: "Quantity must be at least 1",
			},
		}
	}
	return nil
}
