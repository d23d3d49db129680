package logistics

import (
	"context"
	"fmt"

	"github.com/e2ecommerce/server/internal/shared/events"
)

// EventHandler opens the shipment when an order is paid.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates the logistics event handler.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// Handles declares the subscribed event types.
func (h *EventHandler) Handles() []string {
	return []string{events.TypeOrderPaid}
}

// Handle processes one event.
func (h *EventHandler) Handle(event events.Event) error {
	e, ok := event.(events.OrderPaid)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
	_, err := h.service.Open(context.Background(), e.OrderID, e.UserID)
	return err
}
