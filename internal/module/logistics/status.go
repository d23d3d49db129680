package logistics

import "github.com/e2ecommerce/server/internal/shared/fsm"

// Status is the shipment lifecycle state.
type Status string

const (
	StatusAwaitingShipment Status = "awaiting_shipment"
	StatusInTransit        Status = "in_transit"
	StatusDelivered        Status = "delivered"
)

// Transitions is the shipment status graph. Same-day handoffs may skip
// straight from awaiting to delivered.
var Transitions = fsm.Table[Status]{
	StatusAwaitingShipment: {StatusInTransit, StatusDelivered},
	StatusInTransit:        {StatusDelivered},
}

// Progress maps a status to its completion percentage.
func (s Status) Progress() int {
	switch s {
	case StatusInTransit:
		return 50
	case StatusDelivered:
		return 100
	}
	return 0
}
