package logistics

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
	"github.com/e2ecommerce/server/internal/utils/random"
)

// MinReasonLength is the minimum length for correction reasons.
const MinReasonLength = 10

// HistoryEntry is one append-only line of the shipment audit trail.
type HistoryEntry struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecordID     uuid.UUID `json:"record_id" gorm:"type:uuid;index;not null"`
	FromStatus   Status    `json:"from_status" gorm:"not null"`
	ToStatus     Status    `json:"to_status" gorm:"not null"`
	Reason       string    `json:"reason"`
	ActorID      uuid.UUID `json:"actor_id" gorm:"type:uuid"`
	IsCorrection bool      `json:"is_correction" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (HistoryEntry) TableName() string {
	return "logistics_history"
}

// Record is the shipment attached to a paid order.
type Record struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID      `json:"order_id" gorm:"type:uuid;uniqueIndex;not null"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Status       Status         `json:"status" gorm:"not null;default:awaiting_shipment"`
	TrackingCode string         `json:"tracking_code"`
	Carrier      string         `json:"carrier"`
	History      []HistoryEntry `json:"history" gorm:"foreignKey:RecordID"`
	ShippingDate *time.Time     `json:"shipping_date,omitempty"`
	DeliveryDate *time.Time     `json:"delivery_date,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName returns the database table name.
func (Record) TableName() string {
	return "logistics_records"
}

// CanBeUpdated reports whether the shipment still accepts transitions.
func (r *Record) CanBeUpdated() bool {
	return !Transitions.Terminal(r.Status)
}

// Progress returns the completion percentage.
func (r *Record) Progress() int {
	return r.Status.Progress()
}

// appendHistory adds one audit line for a mutation.
func (r *Record) appendHistory(from, to Status, reason string, actorID uuid.UUID, correction bool, at time.Time) {
	r.History = append(r.History, HistoryEntry{
		ID:           uuid.New(),
		RecordID:     r.ID,
		FromStatus:   from,
		ToStatus:     to,
		Reason:       reason,
		ActorID:      actorID,
		IsCorrection: correction,
		CreatedAt:    at,
	})
}

// stampDates fills the shipping and delivery dates exactly once.
func (r *Record) stampDates(to Status, at time.Time) {
	if to == StatusInTransit && r.ShippingDate == nil {
		shipped := at
		r.ShippingDate = &shipped
	}
	if to == StatusDelivered && r.DeliveryDate == nil {
		delivered := at
		r.DeliveryDate = &delivered
	}
}

// UpdateStatus applies a graph-validated transition, stamping dates and
// assigning the tracking code on the first dispatch.
func (r *Record) UpdateStatus(to Status, reason string, actorID uuid.UUID, prefix string, at time.Time) error {
	if err := Transitions.Validate(r.Status, to); err != nil {
		return err
	}

	from := r.Status
	r.Status = to
	r.stampDates(to, at)
	if to != StatusAwaitingShipment && r.TrackingCode == "" {
		r.TrackingCode = generateTrackingCode(prefix, at)
	}
	r.appendHistory(from, to, reason, actorID, false, at)
	return nil
}

// Correct sets the status outside the graph. It is the administrative escape
// hatch and always demands a reason.
func (r *Record) Correct(to Status, reason string, actorID uuid.UUID, at time.Time) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinReasonLength {
		return apperrors.Validation("correction reason must have at least 10 characters")
	}
	switch to {
	case StatusAwaitingShipment, StatusInTransit, StatusDelivered:
	default:
		return apperrors.Validation("unknown status: " + string(to))
	}

	from := r.Status
	r.Status = to
	r.stampDates(to, at)
	r.appendHistory(from, to, strings.TrimSpace(reason), actorID, true, at)
	return nil
}

// generateTrackingCode builds a tracking code from the configured prefix,
// the tail of the timestamp and a random suffix. Codes are assigned once and
// never change.
func generateTrackingCode(prefix string, at time.Time) string {
	ms := fmt.Sprintf("%d", at.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return prefix + ms + random.UpperAlphaNum(4)
}
