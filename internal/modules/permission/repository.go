package permission

import "context"

// Repository defines data access for roles.
type Repository interface {
	// ListByStore returns every role defined for a store.
	ListByStore(ctx context.Context, storeID string) ([]*Role, error)

	// GetByID retrieves a single role.
	GetByID(ctx context.Context, id string) (*Role, error)

	// Update replaces a role's name and permission document.
	Update(ctx context.Context, role *Role) error
}
