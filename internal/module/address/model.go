package address

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies an address.
type Type string

const (
	TypeResidential Type = "residential"
	TypeCommercial  Type = "commercial"
	TypeDelivery    Type = "delivery"
)

// Valid reports whether the type is one of the known address types.
func (t Type) Valid() bool {
	switch t {
	case TypeResidential, TypeCommercial, TypeDelivery:
		return true
	}
	return false
}

// Address is a Brazilian postal address owned by a user.
type Address struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Type       Type      `json:"type" gorm:"not null;default:residential"`
	Street     string    `json:"street" gorm:"not null"`
	Number     string    `json:"number" gorm:"not null"`
	Complement string    `json:"complement"`
	District   string    `json:"district"`
	City       string    `json:"city" gorm:"not null"`
	State      string    `json:"state" gorm:"size:2;not null"`
	CEP        string    `json:"cep" gorm:"size:9;not null"`
	IsDefault  bool      `json:"is_default" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Address) TableName() string {
	return "addresses"
}
