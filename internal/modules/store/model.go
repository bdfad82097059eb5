package store

import (
	"time"

	"github.com/google/uuid"
)

// Store is a restaurant tenant. Every customer, product and order row in the
// system is scoped to exactly one store.
type Store struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member links a user to a store with the role they hold there. A user may
// belong to many stores, each membership carrying an independent role.
type Member struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	RoleID    uuid.UUID `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStoreRequest is the payload for provisioning a new tenant.
type CreateStoreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UpdateStoreRequest is the payload for renaming or (de)activating a store.
type UpdateStoreRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// AssignRoleRequest links a user to the store with a role, replacing any
// existing membership for that user.
type AssignRoleRequest struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}
