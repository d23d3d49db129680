package gateway

import (
	"context"
	"strings"

	"github.com/e2ecommerce/server/internal/utils/random"
)

// Mock is a deterministic test gateway. Each well-known PAN maps to a fixed
// outcome so payment flows can be exercised end to end without an acquirer.
type Mock struct{}

// NewMock creates the mock gateway.
func NewMock() *Mock {
	return &Mock{}
}

type mockOutcome struct {
	brand   string
	decline DeclineCode
}

var mockCards = map[string]mockOutcome{
	// Visa
	"4111111111111111": {brand: "visa"},
	"4000000000000002": {brand: "visa", decline: DeclineInsufficientFunds},
	"4000000000000069": {brand: "visa", decline: DeclineExpiredCard},
	"4000000000000127": {brand: "visa", decline: DeclineInvalidCVV},
	"4000000000000119": {brand: "visa", decline: DeclineDoNotHonor},
	"4000000000000259": {brand: "visa", decline: DeclineLimitExceeded},

	// Mastercard
	"5555555555554444": {brand: "mastercard"},
	"5200000000000007": {brand: "mastercard", decline: DeclineInsufficientFunds},
	"5200000000000023": {brand: "mastercard", decline: DeclineExpiredCard},
	"5200000000000031": {brand: "mastercard", decline: DeclineInvalidCVV},
	"5200000000000049": {brand: "mastercard", decline: DeclineDoNotHonor},
	"5200000000000056": {brand: "mastercard", decline: DeclineLimitExceeded},
}

var declineMessages = map[DeclineCode]string{
	DeclineInsufficientFunds: "insufficient funds",
	DeclineExpiredCard:       "card expired",
	DeclineInvalidCVV:        "invalid security code",
	DeclineDoNotHonor:        "do not honor",
	DeclineLimitExceeded:     "credit limit exceeded",
	DeclineInvalidPAN:        "card number not recognized",
}

// Charge resolves the outcome from the PAN table.
func (m *Mock) Charge(_ context.Context, charge CardCharge) (*Authorization, error) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(charge.Number)

	outcome, ok := mockCards[number]
	if !ok {
		return nil, &DeclineError{Code: DeclineInvalidPAN, Message: declineMessages[DeclineInvalidPAN]}
	}
	if outcome.decline != "" {
		return nil, &DeclineError{Code: outcome.decline, Message: declineMessages[outcome.decline]}
	}

	return &Authorization{
		AuthCode: random.UpperAlphaNum(6),
		Brand:    outcome.brand,
	}, nil
}
