package store

import (
	"context"

	"github.com/comandahub/comanda-backend/internal/modules/permission"
)

// Repository defines data access for stores and memberships.
type Repository interface {
	// CreateStore persists a new tenant.
	CreateStore(ctx context.Context, s *Store) error

	// GetByID retrieves a store by UUID.
	GetByID(ctx context.Context, id string) (*Store, error)

	// GetBySlug retrieves a store by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*Store, error)

	// List returns all stores, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]*Store, error)

	// Update replaces a store's name, slug and active flag.
	Update(ctx context.Context, s *Store) error

	// UpsertMember assigns a role to a user in a store, replacing any
	// existing membership for that user.
	UpsertMember(ctx context.Context, m *Member) error

	// RemoveMember deletes a user's membership in a store.
	RemoveMember(ctx context.Context, storeID, userID string) error

	// ListMembers returns all memberships for a store.
	ListMembers(ctx context.Context, storeID string) ([]*Member, error)

	// GetMemberRole resolves the role a user holds in a store, with its
	// permission map already normalized.
	GetMemberRole(ctx context.Context, storeID, userID string) (*permission.Role, error)
}
