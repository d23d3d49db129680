package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one product line in a cart. Only the reference and quantity are
// stored; prices are resolved against the live catalog on read.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Cart is the per-user shopping cart persisted in the cart store.
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// add merges the quantity into an existing line or appends a new one.
func (c *Cart) add(productID uuid.UUID, qty int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, Item{ProductID: productID, Quantity: qty})
}

// setQuantity replaces a line's quantity, reporting whether it existed.
func (c *Cart) setQuantity(productID uuid.UUID, qty int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return true
		}
	}
	return false
}

// remove drops a line, reporting whether it existed.
func (c *Cart) remove(productID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}
