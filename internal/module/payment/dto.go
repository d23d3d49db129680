package payment

import "github.com/google/uuid"

type QuoteRequest struct {
	Amount       int64 `json:"amount" binding:"required"`
	Installments int   `json:"installments" binding:"required"`
}

type CardPaymentRequest struct {
	OrderID      uuid.UUID `json:"order_id" binding:"required"`
	HolderName   string    `json:"holder_name" binding:"required"`
	Number       string    `json:"number" binding:"required"`
	ExpiryMonth  int       `json:"expiry_month" binding:"required"`
	ExpiryYear   int       `json:"expiry_year" binding:"required"`
	CVV          string    `json:"cvv" binding:"required"`
	Installments int       `json:"installments"`
}

func (r CardPaymentRequest) input() CardInput {
	return CardInput{
		HolderName:   r.HolderName,
		Number:       r.Number,
		ExpiryMonth:  r.ExpiryMonth,
		ExpiryYear:   r.ExpiryYear,
		CVV:          r.CVV,
		Installments: r.Installments,
	}
}

type PixPaymentRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	PayerCPF  string    `json:"payer_cpf"`
	PayerCNPJ string    `json:"payer_cnpj"`
}

type RetryRequest struct {
	HolderName   string `json:"holder_name"`
	Number       string `json:"number"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	CVV          string `json:"cvv"`
	Installments int    `json:"installments"`
}
