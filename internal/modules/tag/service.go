package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines tag management business logic.
type Service interface {
	CreateTag(ctx context.Context, storeID string, req CreateTagRequest) (*Tag, error)
	ListTags(ctx context.Context, storeID string) ([]*Tag, error)
	UpdateTag(ctx context.Context, id string, req CreateTagRequest) (*Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new tag service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateTag(ctx context.Context, storeID string, req CreateTagRequest) (*Tag, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("tag name is required")
	}

	t := &Tag{
		ID:      uuid.New(),
		StoreID: sid,
		Name:    strings.TrimSpace(req.Name),
		Color:   req.Color,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist tag: %w", err)
	}
	return t, nil
}

func (s *service) ListTags(ctx context.Context, storeID string) ([]*Tag, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *service) UpdateTag(ctx context.Context, id string, req CreateTagRequest) (*Tag, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tag not found: %w", err)
	}
	if strings.TrimSpace(req.Name) != "" {
		t.Name = strings.TrimSpace(req.Name)
	}
	if req.Color != "" {
		t.Color = req.Color
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to persist tag: %w", err)
	}
	return t, nil
}

func (s *service) DeleteTag(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
