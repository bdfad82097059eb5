package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, name, email, password string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListStoreUsers(ctx context.Context, storeID string) ([]*User, error)
}
