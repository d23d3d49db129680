package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// WithBreaker wraps a gateway with a circuit breaker so a flapping acquirer
// fails fast instead of queueing charges. Declines count as successful calls
// since the acquirer did answer.
type WithBreaker struct {
	inner   Gateway
	breaker *gobreaker.CircuitBreaker[*Authorization]
}

// NewWithBreaker creates the breaker wrapper.
func NewWithBreaker(inner Gateway) *WithBreaker {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var decline *DeclineError
			return errors.As(err, &decline)
		},
	}

	return &WithBreaker{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[*Authorization](settings),
	}
}

// Charge forwards to the wrapped gateway through the breaker.
func (g *WithBreaker) Charge(ctx context.Context, charge CardCharge) (*Authorization, error) {
	return g.breaker.Execute(func() (*Authorization, error) {
		return g.inner.Charge(ctx, charge)
	})
}

// State exposes the breaker state for health reporting.
func (g *WithBreaker) State() gobreaker.State {
	return g.breaker.State()
}
