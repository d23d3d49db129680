package events

import "github.com/google/uuid"

// Event type names shared across modules.
const (
	TypePaymentApproved    = "PaymentApproved"
	TypeOrderPaid          = "OrderPaid"
	TypeOrderCancelled     = "OrderCancelled"
	TypeShipmentDispatched = "ShipmentDispatched"
	TypeShipmentDelivered  = "ShipmentDelivered"
)

// PaymentApproved is published when the gateway approves a payment.
type PaymentApproved struct {
	BaseEvent
	OrderID   uuid.UUID `json:"order_id"`
	PaymentID uuid.UUID `json:"payment_id"`
	Amount    int64     `json:"amount"`
}

// NewPaymentApproved creates a PaymentApproved event.
func NewPaymentApproved(paymentID, orderID uuid.UUID, amount int64) PaymentApproved {
	return PaymentApproved{
		BaseEvent: NewBaseEvent(TypePaymentApproved, paymentID, "Payment"),
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    amount,
	}
}

// OrderPaid is published after an order transitions to paid.
type OrderPaid struct {
	BaseEvent
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// NewOrderPaid creates an OrderPaid event.
func NewOrderPaid(orderID, userID uuid.UUID) OrderPaid {
	return OrderPaid{
		BaseEvent: NewBaseEvent(TypeOrderPaid, orderID, "Order"),
		OrderID:   orderID,
		UserID:    userID,
	}
}

// OrderCancelled is published after an order is cancelled.
type OrderCancelled struct {
	BaseEvent
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// NewOrderCancelled creates an OrderCancelled event.
func NewOrderCancelled(orderID uuid.UUID, reason string) OrderCancelled {
	return OrderCancelled{
		BaseEvent: NewBaseEvent(TypeOrderCancelled, orderID, "Order"),
		OrderID:   orderID,
		Reason:    reason,
	}
}

// ShipmentDispatched is published when a shipment enters transit.
type ShipmentDispatched struct {
	BaseEvent
	OrderID      uuid.UUID `json:"order_id"`
	TrackingCode string    `json:"tracking_code"`
}

// NewShipmentDispatched creates a ShipmentDispatched event.
func NewShipmentDispatched(shipmentID, orderID uuid.UUID, trackingCode string) ShipmentDispatched {
	return ShipmentDispatched{
		BaseEvent:    NewBaseEvent(TypeShipmentDispatched, shipmentID, "Logistics"),
		OrderID:      orderID,
		TrackingCode: trackingCode,
	}
}

// ShipmentDelivered is published when a shipment reaches the buyer.
type ShipmentDelivered struct {
	BaseEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewShipmentDelivered creates a ShipmentDelivered event.
func NewShipmentDelivered(shipmentID, orderID uuid.UUID) ShipmentDelivered {
	return ShipmentDelivered{
		BaseEvent: NewBaseEvent(TypeShipmentDelivered, shipmentID, "Logistics"),
		OrderID:   orderID,
	}
}
