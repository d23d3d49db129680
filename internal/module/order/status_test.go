package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	assert.True(t, Transitions.Can(StatusPending, StatusPaid))
	assert.True(t, Transitions.Can(StatusPending, StatusCancelled))
	assert.True(t, Transitions.Can(StatusPaid, StatusShipped))
	assert.True(t, Transitions.Can(StatusPaid, StatusCancelled))
	assert.True(t, Transitions.Can(StatusShipped, StatusDelivered))
	assert.True(t, Transitions.Can(StatusDelivered, StatusReturned))

	assert.False(t, Transitions.Can(StatusShipped, StatusCancelled))
	assert.False(t, Transitions.Can(StatusPending, StatusDelivered))
	assert.False(t, Transitions.Can(StatusDelivered, StatusPending))

	assert.True(t, Transitions.Terminal(StatusCancelled))
	assert.True(t, Transitions.Terminal(StatusReturned))
	assert.False(t, Transitions.Terminal(StatusPending))
}
