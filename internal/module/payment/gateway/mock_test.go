package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charge(number string) CardCharge {
	return CardCharge{
		Number:       number,
		HolderName:   "ANA SILVA",
		ExpiryMonth:  12,
		ExpiryYear:   2030,
		CVV:          "123",
		Amount:       10000,
		Installments: 1,
	}
}

func TestMockApprovedCards(t *testing.T) {
	g := NewMock()

	for _, number := range []string{"4111111111111111", "5555555555554444"} {
		auth, err := g.Charge(context.Background(), charge(number))
		require.NoError(t, err, "card %s", number)
		assert.Len(t, auth.AuthCode, 6)
	}

	auth, err := g.Charge(context.Background(), charge("4111 1111 1111 1111"))
	require.NoError(t, err)
	assert.Equal(t, "visa", auth.Brand)
}

func TestMockDeclines(t *testing.T) {
	g := NewMock()

	cases := map[string]DeclineCode{
		"4000000000000002": DeclineInsufficientFunds,
		"4000000000000069": DeclineExpiredCard,
		"4000000000000127": DeclineInvalidCVV,
		"4000000000000119": DeclineDoNotHonor,
		"4000000000000259": DeclineLimitExceeded,
		"5200000000000007": DeclineInsufficientFunds,
		"5200000000000023": DeclineExpiredCard,
		"5200000000000031": DeclineInvalidCVV,
		"5200000000000049": DeclineDoNotHonor,
		"5200000000000056": DeclineLimitExceeded,
	}

	for number, want := range cases {
		_, err := g.Charge(context.Background(), charge(number))
		var decline *DeclineError
		require.ErrorAs(t, err, &decline, "card %s", number)
		assert.Equal(t, want, decline.Code, "card %s", number)
	}
}

func TestMockUnknownPAN(t *testing.T) {
	g := NewMock()

	_, err := g.Charge(context.Background(), charge("4999999999999999"))
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, DeclineInvalidPAN, decline.Code)
}

func TestMockIsDeterministic(t *testing.T) {
	g := NewMock()

	for i := 0; i < 3; i++ {
		_, err := g.Charge(context.Background(), charge("4000000000000002"))
		var decline *DeclineError
		require.ErrorAs(t, err, &decline)
		assert.Equal(t, DeclineInsufficientFunds, decline.Code)
	}
}

func TestBreakerPassesDeclinesThrough(t *testing.T) {
	g := NewWithBreaker(NewMock())

	// Declines are business outcomes and must not trip the breaker.
	for i := 0; i < 10; i++ {
		_, err := g.Charge(context.Background(), charge("4000000000000119"))
		var decline *DeclineError
		require.ErrorAs(t, err, &decline)
	}

	auth, err := g.Charge(context.Background(), charge("4111111111111111"))
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AuthCode)
}

type failingGateway struct{}

func (failingGateway) Charge(context.Context, CardCharge) (*Authorization, error) {
	return nil, errors.New("connection refused")
}

func TestBreakerOpensOnInfrastructureFailures(t *testing.T) {
	g := NewWithBreaker(failingGateway{})

	for i := 0; i < 5; i++ {
		_, err := g.Charge(context.Background(), charge("4111111111111111"))
		require.Error(t, err)
	}

	_, err := g.Charge(context.Background(), charge("4111111111111111"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
