package user

import "context"

// Repository defines data access for users.
type Repository interface {
	// CreateUser persists a new account.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves a user by UUID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ListByStore returns every user with a membership in a store.
	ListByStore(ctx context.Context, storeID string) ([]*User, error)
}
