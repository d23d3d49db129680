package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Prices are stored in centavos.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SupplierID  uuid.UUID `json:"supplier_id" gorm:"type:uuid;index;not null"`
	SKU         string    `json:"sku" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index"`
	ImageURL    string    `json:"image_url"`
	Price       int64     `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	MaxStock    int       `json:"max_stock" gorm:"not null;default:0"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Product) TableName() string {
	return "products"
}

// Available reports whether qty units can currently be sold.
func (p *Product) Available(qty int) bool {
	return p.Active && qty > 0 && p.Stock >= qty
}
