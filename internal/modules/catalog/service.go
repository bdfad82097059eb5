package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, storeID string, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, storeID, search string, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateGroup(ctx context.Context, storeID string, req CreateGroupRequest) (*ComplementGroup, error)
	GetGroup(ctx context.Context, id string) (*ComplementGroup, error)

	// GroupsForProduct resolves a product's complement groups with options,
	// in the product's configured order.
	GroupsForProduct(ctx context.Context, p *Product) ([]*ComplementGroup, error)
	ListGroups(ctx context.Context, storeID string) ([]*ComplementGroup, error)
	UpdateGroup(ctx context.Context, id string, req CreateGroupRequest) (*ComplementGroup, error)
	DeleteGroup(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, storeID string, req CreateProductRequest) (*Product, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.BasePrice < 0 {
		return nil, fmt.Errorf("base_price cannot be negative")
	}
	groupIDs, err := parseGroupIDs(req.ComplementGroupIDs)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:                 uuid.New(),
		StoreID:            sid,
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		BasePrice:          req.BasePrice,
		IsActive:           true,
		ComplementGroupIDs: groupIDs,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, storeID, search string, activeOnly bool) ([]*Product, error) {
	return s.repo.ListProducts(ctx, storeID, search, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if strings.TrimSpace(req.Name) != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	p.Description = req.Description
	if req.BasePrice < 0 {
		return nil, fmt.Errorf("base_price cannot be negative")
	}
	p.BasePrice = req.BasePrice
	if req.ComplementGroupIDs != nil {
		groupIDs, err := parseGroupIDs(req.ComplementGroupIDs)
		if err != nil {
			return nil, err
		}
		p.ComplementGroupIDs = groupIDs
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *service) CreateGroup(ctx context.Context, storeID string, req CreateGroupRequest) (*ComplementGroup, error) {
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}
	if err := validateGroup(req); err != nil {
		return nil, err
	}

	g := &ComplementGroup{
		ID:       uuid.New(),
		StoreID:  sid,
		Name:     strings.TrimSpace(req.Name),
		Required: req.Required,
		Options:  buildOptions(req.Options),
	}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to persist group: %w", err)
	}
	return g, nil
}

func (s *service) GetGroup(ctx context.Context, id string) (*ComplementGroup, error) {
	return s.repo.GetGroupByID(ctx, id)
}

func (s *service) GroupsForProduct(ctx context.Context, p *Product) ([]*ComplementGroup, error) {
	if len(p.ComplementGroupIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(p.ComplementGroupIDs))
	for i, id := range p.ComplementGroupIDs {
		ids[i] = id.String()
	}
	groups, err := s.repo.GetGroupsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*ComplementGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	ordered := make([]*ComplementGroup, 0, len(p.ComplementGroupIDs))
	for _, id := range p.ComplementGroupIDs {
		if g, ok := byID[id]; ok {
			ordered = append(ordered, g)
		}
	}
	return ordered, nil
}

func (s *service) ListGroups(ctx context.Context, storeID string) ([]*ComplementGroup, error) {
	return s.repo.ListGroups(ctx, storeID)
}

func (s *service) UpdateGroup(ctx context.Context, id string, req CreateGroupRequest) (*ComplementGroup, error) {
	g, err := s.repo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("group not found: %w", err)
	}
	if err := validateGroup(req); err != nil {
		return nil, err
	}

	g.Name = strings.TrimSpace(req.Name)
	g.Required = req.Required
	g.Options = buildOptions(req.Options)
	if err := s.repo.UpdateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to persist group: %w", err)
	}
	return g, nil
}

func (s *service) DeleteGroup(ctx context.Context, id string) error {
	return s.repo.DeleteGroup(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validateGroup(req CreateGroupRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	if len(req.Options) == 0 {
		return fmt.Errorf("group must have at least one option")
	}
	for _, o := range req.Options {
		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("option name is required")
		}
		if o.AdditionalPrice < 0 {
			return fmt.Errorf("option %q: additional_price cannot be negative", o.Name)
		}
	}
	return nil
}

func buildOptions(inputs []OptionInput) []*Option {
	options := make([]*Option, len(inputs))
	for i, in := range inputs {
		options[i] = &Option{
			ID:              uuid.New(),
			Name:            strings.TrimSpace(in.Name),
			AdditionalPrice: in.AdditionalPrice,
			Position:        i,
		}
	}
	return options
}

func parseGroupIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid complement group id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
