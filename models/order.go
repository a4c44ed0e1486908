package models

import "time"

// Order statuses. A plain enumerated field: in_progress orders are moved to
// completed by an explicit update, nothing transitions automatically.
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

// Order is a customer's order, composed of line items. Amounts are whole
// currency units.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	PlacedByID uint        `gorm:"not null;index" json:"placed_by"`
	PlacedBy   Customer    `gorm:"foreignKey:PlacedByID;constraint:OnDelete:CASCADE" json:"-"`
	Price      int64       `gorm:"not null" json:"price"`
	Payed      int64       `gorm:"not null" json:"payed"`
	Status     string      `gorm:"not null;default:'in_progress'" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Validate checks the payment invariants and the status value. Each field
// reports its first violated rule; structurally distinct fields can fail
// together since the result is keyed by field.
func (o *Order) Validate() FieldErrors {
	errs := FieldErrors{}

	if o.Price < 0 {
		errs.Add("price", &FieldError{
			Code:    ErrCodeOutOfRange,
			Message: "Price must be non-negative",
		})
	}
	if o.Payed < 0 {
		errs.Add("payed", &FieldError{
			Code:    ErrCodeOutOfRange,
			Message: "Payed amount must be non-negative",
		})
	} else if o.Payed > o.Price {
		errs.Add("payed", &FieldError{
			Code:    ErrCodeOutOfRange,
			Message: "Payed amount cannot exceed total price",
		})
	}

	if o.Status != OrderStatusInProgress && o.Status != OrderStatusCompleted {
		errs.Add("status", &FieldError{
			Code:    ErrCodeInvalidChoice,
			Message: "Status must be in_progress or completed",
			Allowed: []string{OrderStatusInProgress, OrderStatusCompleted},
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
