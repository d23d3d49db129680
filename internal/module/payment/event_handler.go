package payment

import (
	"context"
	"fmt"

	"github.com/e2ecommerce/server/internal/shared/events"
)

// EventHandler voids pending payments when their order is cancelled.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates the payment event handler.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// Handles declares the subscribed event types.
func (h *EventHandler) Handles() []string {
	return []string{events.TypeOrderCancelled}
}

// Handle processes one event.
func (h *EventHandler) Handle(event events.Event) error {
	e, ok := event.(events.OrderCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
	return h.service.cancelPending(context.Background(), e.OrderID)
}
