package order

import (
	"context"
	"fmt"

	"github.com/e2ecommerce/server/internal/shared/events"
)

// EventHandler advances orders in response to payment and logistics events.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates the order event handler.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// Handles declares the subscribed event types.
func (h *EventHandler) Handles() []string {
	return []string{
		events.TypePaymentApproved,
		events.TypeShipmentDispatched,
		events.TypeShipmentDelivered,
	}
}

// Handle processes one event.
func (h *EventHandler) Handle(event events.Event) error {
	ctx := context.Background()
	switch e := event.(type) {
	case events.PaymentApproved:
		return h.service.markPaid(ctx, e.OrderID)
	case events.ShipmentDispatched:
		return h.service.markShipped(ctx, e.OrderID)
	case events.ShipmentDelivered:
		return h.service.markDelivered(ctx, e.OrderID)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
}
