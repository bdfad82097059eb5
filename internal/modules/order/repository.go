package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// Create persists the order header, its items and its tag links
	// atomically in a single transaction.
	Create(ctx context.Context, o *Order) error

	// Replace rewrites the header fields and does a delete-all-then-reinsert
	// of items and tag links, all in one transaction.
	Replace(ctx context.Context, o *Order) error

	// GetByID retrieves a full order with items, tag links and the
	// customer's name and phone.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List returns a filtered page of a store's orders plus the total match
	// count. Items are not loaded; tag links are.
	List(ctx context.Context, storeID string, f Filters) ([]*Order, int, error)

	// ListOpen returns the orders the board partitions: everything not yet
	// delivered plus delivered-but-unpaid ones.
	ListOpen(ctx context.Context, storeID string) ([]*Order, error)

	// UpdateStatus flips the payment and/or fulfillment flag.
	UpdateStatus(ctx context.Context, id string, payment *PaymentStatus, fulfillment *FulfillmentStatus) error

	// ReplaceTags rewrites the order's tag links in one transaction.
	ReplaceTags(ctx context.Context, orderID string, tagIDs []string) error

	// Delete removes tag links, items and the header in one transaction.
	Delete(ctx context.Context, id string) error
}
