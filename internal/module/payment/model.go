package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Method is the payment method.
type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodDebitCard  Method = "debit_card"
	MethodPix        Method = "pix"
)

// Valid reports whether the method is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPix:
		return true
	}
	return false
}

// CardData is the stored card snapshot. Only the masked PAN is kept.
type CardData struct {
	HolderName   string `json:"holder_name"`
	MaskedNumber string `json:"masked_number"`
	Brand        string `json:"brand"`
	Installments int    `json:"installments"`
}

// PixData is the stored PIX charge details.
type PixData struct {
	TxID      string    `json:"txid"`
	Key       string    `json:"key"`
	QRCode    string    `json:"qr_code"`
	PayerCPF  string    `json:"payer_cpf,omitempty"`
	PayerCNPJ string    `json:"payer_cnpj,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Payment is a payment attempt against an order. Amounts are centavos.
type Payment struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `json:"order_id" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	Method      Method     `json:"method" gorm:"not null"`
	Status      Status     `json:"status" gorm:"not null;default:pending"`
	Amount      int64      `json:"amount" gorm:"not null"`
	Card        *CardData  `json:"card,omitempty" gorm:"serializer:json"`
	Pix         *PixData   `json:"pix,omitempty" gorm:"serializer:json"`
	DeclineCode string     `json:"decline_code,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name.
func (Payment) TableName() string {
	return "payments"
}

// transition validates and applies a status change.
func (p *Payment) transition(to Status) error {
	if err := Transitions.Validate(p.Status, to); err != nil {
		return err
	}
	p.Status = to
	return nil
}

// MarkPaid moves the payment to paid.
func (p *Payment) MarkPaid(at time.Time) error {
	if err := p.transition(StatusPaid); err != nil {
		return err
	}
	p.PaidAt = &at
	p.DeclineCode = ""
	return nil
}

// MarkFailed moves the payment to failed recording the decline code.
func (p *Payment) MarkFailed(code string) error {
	if err := p.transition(StatusFailed); err != nil {
		return err
	}
	p.DeclineCode = code
	return nil
}

// MarkCancelled moves the payment to cancelled.
func (p *Payment) MarkCancelled() error {
	return p.transition(StatusCancelled)
}

// MarkExpired moves the payment to expired.
func (p *Payment) MarkExpired() error {
	return p.transition(StatusExpired)
}

// Retry returns a failed payment to pending for another attempt.
func (p *Payment) Retry() error {
	if err := p.transition(StatusPending); err != nil {
		return err
	}
	p.DeclineCode = ""
	return nil
}

// PixExpired reports whether a pending PIX charge is past its expiry.
func (p *Payment) PixExpired(now time.Time) bool {
	return p.Method == MethodPix &&
		p.Status == StatusPending &&
		p.Pix != nil &&
		now.After(p.Pix.ExpiresAt)
}

// MaskPAN keeps the last four digits of a card number.
func MaskPAN(number string) string {
	digits := strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
