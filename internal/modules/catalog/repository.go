package catalog

import "context"

// Repository defines data access for products and complement groups.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, storeID, search string, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	// CreateGroup persists a group and its options in one transaction.
	CreateGroup(ctx context.Context, g *ComplementGroup) error
	GetGroupByID(ctx context.Context, id string) (*ComplementGroup, error)

	// GetGroupsByIDs returns the given groups with options, preserving no
	// particular order.
	GetGroupsByIDs(ctx context.Context, ids []string) ([]*ComplementGroup, error)

	// ListGroups returns all of a store's groups with their options.
	ListGroups(ctx context.Context, storeID string) ([]*ComplementGroup, error)

	// UpdateGroup replaces the group row and its full option list in one
	// transaction.
	UpdateGroup(ctx context.Context, g *ComplementGroup) error
	DeleteGroup(ctx context.Context, id string) error
}
