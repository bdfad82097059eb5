package customer

import "context"

// Repository defines data access for customers and their addresses.
type Repository interface {
	// Create persists a new customer.
	Create(ctx context.Context, c *Customer) error

	// GetByID retrieves a customer by UUID.
	GetByID(ctx context.Context, id string) (*Customer, error)

	// GetByPhone retrieves a store's customer by normalized phone.
	// Returns (nil, nil) when no customer matches.
	GetByPhone(ctx context.Context, storeID, phone string) (*Customer, error)

	// Search returns customers of a store whose name or phone matches the
	// query, paginated, with the total match count.
	Search(ctx context.Context, storeID, query string, page, pageSize int) ([]*Customer, int, error)

	// Update replaces a customer's name and phone.
	Update(ctx context.Context, c *Customer) error

	// Delete removes a customer.
	Delete(ctx context.Context, id string) error

	// CreateAddress persists a new address.
	CreateAddress(ctx context.Context, a *Address) error

	// ListAddresses returns a customer's addresses, principal first.
	ListAddresses(ctx context.Context, customerID string) ([]*Address, error)

	// GetAddress retrieves a single address.
	GetAddress(ctx context.Context, id string) (*Address, error)

	// CountAddresses returns how many addresses a customer has.
	CountAddresses(ctx context.Context, customerID string) (int, error)
}
