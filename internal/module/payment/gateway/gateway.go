// Package gateway abstracts the card acquirer behind a single Charge call so
// the payment service stays independent of the provider.
package gateway

import "context"

// DeclineCode is the acquirer's reason for refusing a charge.
type DeclineCode string

const (
	DeclineInsufficientFunds DeclineCode = "insufficient_funds"
	DeclineExpiredCard       DeclineCode = "expired_card"
	DeclineInvalidCVV        DeclineCode = "invalid_cvv"
	DeclineDoNotHonor        DeclineCode = "do_not_honor"
	DeclineLimitExceeded     DeclineCode = "limit_exceeded"
	DeclineInvalidPAN        DeclineCode = "invalid_pan"
)

// DeclineError is a refusal from the gateway. It is a business outcome, not
// an infrastructure failure.
type DeclineError struct {
	Code    DeclineCode
	Message string
}

// Error implements the error interface.
func (e *DeclineError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// CardCharge is a charge request. Amount is centavos.
type CardCharge struct {
	Number       string
	HolderName   string
	ExpiryMonth  int
	ExpiryYear   int
	CVV          string
	Amount       int64
	Installments int
}

// Authorization is a successful charge.
type Authorization struct {
	AuthCode string
	Brand    string
}

// Gateway authorizes card charges.
type Gateway interface {
	Charge(ctx context.Context, charge CardCharge) (*Authorization, error)
}
