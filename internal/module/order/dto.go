package order

import "github.com/google/uuid"

type checkoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	AddressID uuid.UUID             `json:"address_id" binding:"required"`
	Items     []checkoutItemRequest `json:"items" binding:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type ListResponse struct {
	Orders  []Order `json:"orders"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}
