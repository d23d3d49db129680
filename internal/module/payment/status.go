package payment

import "github.com/e2ecommerce/server/internal/shared/fsm"

// Status is the payment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Transitions is the payment status graph. Failed payments may be retried
// back to pending.
var Transitions = fsm.Table[Status]{
	StatusPending: {StatusPaid, StatusFailed, StatusCancelled, StatusExpired},
	StatusFailed:  {StatusPending},
}
