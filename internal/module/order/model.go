package order

import (
	"strings"
	"unicode/utf8"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// ReturnWindow is how long after delivery a return may be requested.
const ReturnWindow = 7 * 24 * time.Hour

// MinReasonLength is the minimum length for cancellation and return reasons.
const MinReasonLength = 10

// Item is a line in an order. Unit prices are captured at checkout time in
// centavos and never re-read from the catalog.
type Item struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	ProductName string    `json:"product_name" gorm:"not null"`
	SKU         string    `json:"sku" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
}

// TableName returns the database table name.
func (Item) TableName() string {
	return "order_items"
}

// Subtotal is unit price times quantity.
func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// ShippingAddress is the delivery address snapshot embedded in the order.
type ShippingAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	CEP        string `json:"cep"`
}

// Order is a purchase with its items and lifecycle state. All money fields
// are centavos.
type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Number          string          `json:"number" gorm:"uniqueIndex;not null"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;index;not null"`
	Status          Status          `json:"status" gorm:"not null;default:pending"`
	PaymentStatus   string          `json:"payment_status" gorm:"not null;default:pending"`
	Items           []Item          `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	Subtotal        int64           `json:"subtotal" gorm:"not null"`
	Freight         int64           `json:"freight" gorm:"not null"`
	Total           int64           `json:"total" gorm:"not null"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	ReturnDeadline  *time.Time      `json:"return_deadline,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// Recompute recalculates subtotal and total from the items and freight.
func (o *Order) Recompute() {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.Subtotal()
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.Freight
}

// transition validates and applies a status change.
func (o *Order) transition(to Status) error {
	if err := Transitions.Validate(o.Status, to); err != nil {
		return err
	}
	o.Status = to
	return nil
}

// MarkPaid moves the order to paid.
func (o *Order) MarkPaid(at time.Time) error {
	if err := o.transition(StatusPaid); err != nil {
		return err
	}
	o.PaidAt = &at
	o.PaymentStatus = "paid"
	return nil
}

// MarkShipped moves the order to shipped.
func (o *Order) MarkShipped(at time.Time) error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	o.ShippedAt = &at
	return nil
}

// MarkDelivered moves the order to delivered and opens the return window.
func (o *Order) MarkDelivered(at time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &at
	deadline := at.Add(ReturnWindow)
	o.ReturnDeadline = &deadline
	return nil
}

// Cancel moves the order to cancelled. Only pending and paid orders can be
// cancelled, and a reason is required.
func (o *Order) Cancel(reason string, at time.Time) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinReasonLength {
		return apperrors.Validation("cancellation reason must have at least 10 characters")
	}
	if o.Status != StatusPending && o.Status != StatusPaid {
		return apperrors.InvalidState("cancellation", string(o.Status))
	}
	o.Status = StatusCancelled
	o.CancelReason = strings.TrimSpace(reason)
	o.CancelledAt = &at
	return nil
}

// CanBeReturned reports whether a return can still be requested at `now`.
func (o *Order) CanBeReturned(now time.Time) bool {
	return o.Status == StatusDelivered &&
		o.ReturnDeadline != nil &&
		!now.After(*o.ReturnDeadline)
}

// MarkReturned moves a delivered order to returned, enforcing the window.
func (o *Order) MarkReturned(reason string, now time.Time) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinReasonLength {
		return apperrors.Validation("return reason must have at least 10 characters")
	}
	if o.Status != StatusDelivered {
		return apperrors.InvalidState("return", string(o.Status))
	}
	if !o.CanBeReturned(now) {
		return apperrors.InvalidState("return after deadline", string(o.Status))
	}
	o.Status = StatusReturned
	o.CancelReason = strings.TrimSpace(reason)
	return nil
}
