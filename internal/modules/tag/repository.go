package tag

import "context"

// Repository defines data access for order tags.
type Repository interface {
	Create(ctx context.Context, t *Tag) error
	GetByID(ctx context.Context, id string) (*Tag, error)
	ListByStore(ctx context.Context, storeID string) ([]*Tag, error)
	Update(ctx context.Context, t *Tag) error

	// Delete removes the tag and its order links in one transaction.
	Delete(ctx context.Context, id string) error
}
