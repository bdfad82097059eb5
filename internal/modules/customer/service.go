package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines customer management business logic.
type Service interface {
	// FindByPhone looks a customer up by phone in a store. Returns
	// (nil, nil) when no customer matches, so callers can offer
	// quick-registration instead of treating it as a failure.
	FindByPhone(ctx context.Context, storeID, phone string) (*Customer, error)

	// QuickRegister creates a customer from just a name and phone.
	QuickRegister(ctx context.Context, storeID string, req CreateCustomerRequest) (*Customer, error)

	// GetCustomer retrieves a customer by UUID.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// SearchCustomers returns a paginated name/phone search with total count.
	SearchCustomers(ctx context.Context, storeID, query string, page, pageSize int) ([]*Customer, int, error)

	// UpdateCustomer replaces a customer's name and phone.
	UpdateCustomer(ctx context.Context, id string, req CreateCustomerRequest) (*Customer, error)

	// DeleteCustomer removes a customer.
	DeleteCustomer(ctx context.Context, id string) error

	// CreateAddress adds a delivery address; the customer's first address is
	// automatically flagged principal.
	CreateAddress(ctx context.Context, customerID string, req CreateAddressRequest) (*Address, error)

	// ListAddresses returns a customer's addresses, principal first.
	ListAddresses(ctx context.Context, customerID string) ([]*Address, error)

	// GetAddress retrieves a single address.
	GetAddress(ctx context.Context, id string) (*Address, error)
}

type service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) FindByPhone(ctx context.Context, storeID, phone string) (*Customer, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByPhone(ctx, storeID, normalized)
}

func (s *service) QuickRegister(ctx context.Context, storeID string, req CreateCustomerRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}

	if existing, err := s.repo.GetByPhone(ctx, storeID, phone); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("a customer with phone %s already exists", phone)
	}

	c := &Customer{
		ID:      uuid.New(),
		StoreID: sid,
		Name:    name,
		Phone:   phone,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist customer: %w", err)
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SearchCustomers(ctx context.Context, storeID, query string, page, pageSize int) ([]*Customer, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.Search(ctx, storeID, query, page, pageSize)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req CreateCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	}
	if req.Phone != "" {
		phone, err := NormalizePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		c.Phone = phone
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist customer: %w", err)
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) CreateAddress(ctx context.Context, customerID string, req CreateAddressRequest) (*Address, error) {
	cid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}
	for field, value := range map[string]string{
		"street": req.Street,
		"number": req.Number,
		"city":   req.City,
		"state":  req.State,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s is required", field)
		}
	}

	count, err := s.repo.CountAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}

	a := &Address{
		ID:           uuid.New(),
		CustomerID:   cid,
		Street:       strings.TrimSpace(req.Street),
		Number:       strings.TrimSpace(req.Number),
		Complement:   strings.TrimSpace(req.Complement),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		CEP:          strings.TrimSpace(req.CEP),
		Principal:    count == 0,
	}
	if err := s.repo.CreateAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to persist address: %w", err)
	}
	return a, nil
}

func (s *service) ListAddresses(ctx context.Context, customerID string) ([]*Address, error) {
	return s.repo.ListAddresses(ctx, customerID)
}

func (s *service) GetAddress(ctx context.Context, id string) (*Address, error) {
	return s.repo.GetAddress(ctx, id)
}
