package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user role.
type Role string

const (
	RoleClient   Role = "client"
	RoleSupplier Role = "supplier"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleSupplier, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in any of the four roles.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;default:client"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// Actor is the authenticated principal attached to a request. The core
// modules only consume the actor; credential verification happens upstream.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Is reports whether the actor has any of the given roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Claims are the token claims issued at login.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
