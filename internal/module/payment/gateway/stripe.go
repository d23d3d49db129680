package gateway

import (
	"context"
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/token"
	"go.uber.org/zap"
)

// Stripe charges cards through Stripe payment intents. Raw card data is
// exchanged for a token before the charge.
type Stripe struct {
	logger *zap.Logger
}

// NewStripe configures the Stripe client and creates the gateway.
func NewStripe(apiKey string, logger *zap.Logger) *Stripe {
	stripe.Key = apiKey
	return &Stripe{logger: logger}
}

// Charge tokenizes the card and confirms a payment intent in one call.
func (s *Stripe) Charge(_ context.Context, charge CardCharge) (*Authorization, error) {
	tok, err := token.New(&stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(charge.Number),
			ExpMonth: stripe.String(strconv.Itoa(charge.ExpiryMonth)),
			ExpYear:  stripe.String(strconv.Itoa(charge.ExpiryYear)),
			CVC:      stripe.String(charge.CVV),
			Name:     stripe.String(charge.HolderName),
		},
	})
	if err != nil {
		return nil, mapStripeError(err)
	}

	pi, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(charge.Amount),
		Currency: stripe.String(string(stripe.CurrencyBRL)),
		Confirm:  stripe.Bool(true),
		PaymentMethodData: &stripe.PaymentIntentPaymentMethodDataParams{
			Type: stripe.String("card"),
		},
	})
	if err != nil {
		return nil, mapStripeError(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		s.logger.Warn("payment intent not settled",
			zap.String("intent_id", pi.ID),
			zap.String("status", string(pi.Status)),
		)
		return nil, &DeclineError{Code: DeclineDoNotHonor, Message: "charge not settled"}
	}

	brand := "card"
	if tok.Card != nil {
		brand = string(tok.Card.Brand)
	}
	return &Authorization{AuthCode: pi.ID, Brand: brand}, nil
}

// mapStripeError translates Stripe card errors into decline errors, leaving
// infrastructure failures untouched for the circuit breaker.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return err
	}
	if stripeErr.Type != stripe.ErrorTypeCard {
		return err
	}

	code := DeclineDoNotHonor
	switch stripeErr.Code {
	case stripe.ErrorCodeCardDeclined:
		code = DeclineDoNotHonor
	case stripe.ErrorCodeExpiredCard:
		code = DeclineExpiredCard
	case stripe.ErrorCodeIncorrectCVC:
		code = DeclineInvalidCVV
	case stripe.ErrorCodeIncorrectNumber, stripe.ErrorCodeInvalidNumber:
		code = DeclineInvalidPAN
	}
	return &DeclineError{Code: code, Message: stripeErr.Msg}
}
