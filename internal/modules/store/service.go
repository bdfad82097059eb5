package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Service defines store management business logic.
type Service interface {
	// CreateStore provisions a new tenant with a unique URL slug.
	CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error)

	// GetStore retrieves a store by UUID.
	GetStore(ctx context.Context, id string) (*Store, error)

	// GetStoreBySlug retrieves a store by URL slug.
	GetStoreBySlug(ctx context.Context, slug string) (*Store, error)

	// ListStores returns all stores, optionally only active ones.
	ListStores(ctx context.Context, activeOnly bool) ([]*Store, error)

	// UpdateStore renames or (de)activates a store.
	UpdateStore(ctx context.Context, id string, req UpdateStoreRequest) (*Store, error)

	// AssignRole links a user to the store with a role.
	AssignRole(ctx context.Context, storeID string, req AssignRoleRequest) (*Member, error)

	// RemoveMember deletes a user's membership in the store.
	RemoveMember(ctx context.Context, storeID, userID string) error

	// ListMembers returns all memberships for a store.
	ListMembers(ctx context.Context, storeID string) ([]*Member, error)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q: lowercase letters, digits and hyphens only", req.Slug)
	}
	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, fmt.Errorf("slug %q is already taken", slug)
	}

	st := &Store{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	if err := s.repo.CreateStore(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to persist store: %w", err)
	}
	return st, nil
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetStoreBySlug(ctx context.Context, slug string) (*Store, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) ListStores(ctx context.Context, activeOnly bool) ([]*Store, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateStore(ctx context.Context, id string, req UpdateStoreRequest) (*Store, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store not found: %w", err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		st.Name = name
	}
	if slug := strings.ToLower(strings.TrimSpace(req.Slug)); slug != "" && slug != st.Slug {
		if !slugPattern.MatchString(slug) {
			return nil, fmt.Errorf("invalid slug %q: lowercase letters, digits and hyphens only", req.Slug)
		}
		if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
			return nil, fmt.Errorf("slug %q is already taken", slug)
		}
		st.Slug = slug
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to persist store: %w", err)
	}
	return st, nil
}

func (s *service) AssignRole(ctx context.Context, storeID string, req AssignRoleRequest) (*Member, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return nil, fmt.Errorf("invalid role_id: %w", err)
	}

	m := &Member{
		ID:      uuid.New(),
		StoreID: sid,
		UserID:  userID,
		RoleID:  roleID,
	}
	if err := s.repo.UpsertMember(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to persist membership: %w", err)
	}
	return m, nil
}

func (s *service) RemoveMember(ctx context.Context, storeID, userID string) error {
	return s.repo.RemoveMember(ctx, storeID, userID)
}

func (s *service) ListMembers(ctx context.Context, storeID string) ([]*Member, error) {
	return s.repo.ListMembers(ctx, storeID)
}
