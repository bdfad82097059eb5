package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRoleMutationUnsupported is returned for role create/delete attempts.
// Roles are provisioned with the store; only their name and permission map
// can change from the settings screen.
var ErrRoleMutationUnsupported = errors.New("roles cannot be created or deleted, only edited")

// Service defines role management business logic.
type Service interface {
	// ListRoles returns all roles for a store with normalized permissions.
	ListRoles(ctx context.Context, storeID string) ([]*Role, error)

	// GetRole retrieves a single role.
	GetRole(ctx context.Context, id string) (*Role, error)

	// UpdateRole renames a role and replaces its permission map. The incoming
	// document may be in any accepted shape; it is normalized before storage.
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*Role, error)
}

type service struct {
	repo Repository
}

// NewService creates a new role service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListRoles(ctx context.Context, storeID string) ([]*Role, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *service) GetRole(ctx context.Context, id string) (*Role, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*Role, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("role name is required")
	}
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	permissions, err := Normalize(req.Permissions)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Permissions = permissions
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to persist role: %w", err)
	}
	return role, nil
}
