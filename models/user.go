package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a platform user
type UserRole string

const (
	RoleTrainee    UserRole = "trainee"
	RoleTrainer    UserRole = "trainer"
	RoleSuperAdmin UserRole = "super_admin"
)

// User represents a platform user resolved from the identity store.
// The gateway only reads users; issuance and lifecycle live elsewhere.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      UserRole  `json:"role" db:"role"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsSuperAdmin returns true if the user has the super_admin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsKnownRole returns true if the role is one the gateway recognizes
func (u *User) IsKnownRole() bool {
	switch u.Role {
	case RoleTrainee, RoleTrainer, RoleSuperAdmin:
		return true
	}
	return false
}
