package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comandahub/comanda-backend/internal/modules/catalog"
	"github.com/comandahub/comanda-backend/internal/modules/customer"
	"github.com/comandahub/comanda-backend/internal/modules/order"
)

var (
	// ErrNoDraft is returned when an operation needs a draft that was never
	// started or has expired.
	ErrNoDraft = errors.New("no draft in progress")

	// ErrCustomerNotFound signals the phone matched nobody, so the UI should
	// offer quick registration instead.
	ErrCustomerNotFound = errors.New("customer not found")
)

// Service is the wizard state machine. Every operation loads the caller's
// draft, applies one transition and persists the result.
type Service interface {
	// StartOrResume returns the caller's in-progress draft, creating a fresh
	// Step-1 draft when none exists.
	StartOrResume(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error)

	// BeginEdit seeds a Step-3 draft from an existing order so it can be
	// modified and resubmitted as a full replacement.
	BeginEdit(ctx context.Context, storeID, userID uuid.UUID, orderID string) (*Draft, error)

	// SelectCustomer resolves Step 1 by phone lookup. Returns
	// ErrCustomerNotFound when no customer matches.
	SelectCustomer(ctx context.Context, storeID, userID uuid.UUID, req SelectCustomerRequest) (*Draft, error)

	// QuickRegister creates a customer from name+phone and resolves Step 1
	// with it.
	QuickRegister(ctx context.Context, storeID, userID uuid.UUID, req customer.CreateCustomerRequest) (*Draft, error)

	// SetDelivery completes Step 2. Delivery orders need an existing address
	// id or an inline new address, which is created on the customer first.
	SetDelivery(ctx context.Context, storeID, userID uuid.UUID, req DeliveryRequest) (*Draft, error)

	// AddItem appends a line item in Step 3, validating that every required
	// complement group of the product has a chosen option.
	AddItem(ctx context.Context, storeID, userID uuid.UUID, req AddItemRequest) (*Draft, error)

	// RemoveItem drops the line item at the given position.
	RemoveItem(ctx context.Context, storeID, userID uuid.UUID, index int) (*Draft, error)

	// Back moves one step toward Step 1, keeping everything already filled.
	Back(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error)

	// Submit turns the draft into an order (create, or replace in edit mode)
	// and clears the draft on success. On failure the draft stays open.
	Submit(ctx context.Context, storeID, userID uuid.UUID, req SubmitRequest) (*order.Order, error)

	// Cancel discards the draft.
	Cancel(ctx context.Context, storeID, userID uuid.UUID) error
}

type service struct {
	drafts    DraftStore
	customers customer.Service
	products  catalog.Service
	orders    order.Service
	logger    *zap.Logger
}

func NewService(drafts DraftStore, customers customer.Service, products catalog.Service, orders order.Service, logger *zap.Logger) Service {
	return &service{drafts: drafts, customers: customers, products: products, orders: orders, logger: logger}
}

func (s *service) StartOrResume(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error) {
	d, err := s.drafts.Get(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d, nil
	}
	d = &Draft{
		StoreID:      storeID,
		UserID:       userID,
		Step:         StepCustomer,
		DeliveryType: order.DeliveryPickup,
		Items:        []*DraftItem{},
	}
	return s.save(ctx, d)
}

func (s *service) BeginEdit(ctx context.Context, storeID, userID uuid.UUID, orderID string) (*Draft, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order for editing: %w", err)
	}
	if o.StoreID != storeID {
		return nil, fmt.Errorf("order %s does not belong to this store", orderID)
	}

	d := &Draft{
		StoreID:       storeID,
		UserID:        userID,
		Step:          StepItems,
		EditOrderID:   &o.ID,
		CustomerID:    &o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		DeliveryType:  o.DeliveryType,
		DeliveryDate:  o.DeliveryDate,
		DeliveryTime:  o.DeliveryTime,
		AddressID:     o.AddressID,
		ShippingFee:   o.ShippingFee,
		Discount:      o.Discount,
		PaymentStatus: o.PaymentStatus,
		Note:          o.Note,
		TagIDs:        o.TagIDs,
		Items:         make([]*DraftItem, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		d.Items = append(d.Items, &DraftItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Options:     item.Options,
		})
	}
	return s.save(ctx, d)
}

func (s *service) SelectCustomer(ctx context.Context, storeID, userID uuid.UUID, req SelectCustomerRequest) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.customers.FindByPhone(ctx, storeID.String(), req.Phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return s.resolveCustomer(ctx, d, c)
}

func (s *service) QuickRegister(ctx context.Context, storeID, userID uuid.UUID, req customer.CreateCustomerRequest) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.customers.QuickRegister(ctx, storeID.String(), req)
	if err != nil {
		return nil, err
	}
	return s.resolveCustomer(ctx, d, c)
}

func (s *service) resolveCustomer(ctx context.Context, d *Draft, c *customer.Customer) (*Draft, error) {
	d.CustomerID = &c.ID
	d.CustomerName = c.Name
	d.CustomerPhone = c.Phone
	if d.Step < StepDelivery {
		d.Step = StepDelivery
	}
	return s.save(ctx, d)
}

func (s *service) SetDelivery(ctx context.Context, storeID, userID uuid.UUID, req DeliveryRequest) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID == nil {
		return nil, fmt.Errorf("select a customer before setting delivery details")
	}
	if req.DeliveryType != order.DeliveryPickup && req.DeliveryType != order.DeliveryDelivery {
		return nil, fmt.Errorf("invalid delivery_type %q", req.DeliveryType)
	}
	if req.DeliveryDate == "" || req.DeliveryTime == "" {
		return nil, fmt.Errorf("delivery_date and delivery_time are required")
	}

	d.DeliveryType = req.DeliveryType
	d.DeliveryDate = req.DeliveryDate
	d.DeliveryTime = req.DeliveryTime

	if req.DeliveryType == order.DeliveryDelivery {
		switch {
		case req.AddressID != "":
			id, err := uuid.Parse(req.AddressID)
			if err != nil {
				return nil, fmt.Errorf("invalid address id: %w", err)
			}
			d.AddressID = &id
		case req.NewAddress != nil:
			a, err := s.customers.CreateAddress(ctx, d.CustomerID.String(), customer.CreateAddressRequest{
				Street:       req.NewAddress.Street,
				Number:       req.NewAddress.Number,
				Complement:   req.NewAddress.Complement,
				Neighborhood: req.NewAddress.Neighborhood,
				City:         req.NewAddress.City,
				State:        req.NewAddress.State,
				CEP:          req.NewAddress.CEP,
			})
			if err != nil {
				return nil, err
			}
			d.AddressID = &a.ID
		case d.AddressID == nil:
			return nil, fmt.Errorf("delivery orders require an address")
		}
	} else {
		d.AddressID = nil
	}

	if d.Step < StepItems {
		d.Step = StepItems
	}
	return s.save(ctx, d)
}

func (s *service) AddItem(ctx context.Context, storeID, userID uuid.UUID, req AddItemRequest) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d.Step < StepItems {
		return nil, fmt.Errorf("complete delivery details before adding items")
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	p, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	groups, err := s.products.GroupsForProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	item, err := buildItem(p, groups, req)
	if err != nil {
		return nil, err
	}
	d.Items = append(d.Items, item)
	return s.save(ctx, d)
}

// buildItem resolves the option choices against the product's complement
// groups, enforcing one choice per required group, and prices the line.
func buildItem(p *catalog.Product, groups []*catalog.ComplementGroup, req AddItemRequest) (*DraftItem, error) {
	chosen := map[string]string{}
	for _, c := range req.Choices {
		chosen[c.GroupID] = c.OptionID
	}

	unitPrice := p.BasePrice
	var options []*order.ChosenOption
	for _, g := range groups {
		optionID, ok := chosen[g.ID.String()]
		if !ok {
			if g.Required {
				return nil, fmt.Errorf("complement group %q requires a choice", g.Name)
			}
			continue
		}
		var opt *catalog.Option
		for _, o := range g.Options {
			if o.ID.String() == optionID {
				opt = o
				break
			}
		}
		if opt == nil {
			return nil, fmt.Errorf("option %s does not belong to group %q", optionID, g.Name)
		}
		unitPrice += opt.AdditionalPrice
		options = append(options, &order.ChosenOption{
			GroupID:    g.ID,
			GroupName:  g.Name,
			OptionName: opt.Name,
			Price:      opt.AdditionalPrice,
		})
		delete(chosen, g.ID.String())
	}
	if len(chosen) > 0 {
		return nil, fmt.Errorf("choices reference groups not attached to product %q", p.Name)
	}

	return &DraftItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    req.Quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice * float64(req.Quantity),
		Options:     options,
	}, nil
}

func (s *service) RemoveItem(ctx context.Context, storeID, userID uuid.UUID, index int) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Items) {
		return nil, fmt.Errorf("no item at position %d", index)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return s.save(ctx, d)
}

func (s *service) Back(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d.Step > StepCustomer {
		d.Step--
	}
	return s.save(ctx, d)
}

func (s *service) Submit(ctx context.Context, storeID, userID uuid.UUID, req SubmitRequest) (*order.Order, error) {
	d, err := s.load(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID == nil {
		return nil, fmt.Errorf("select a customer before submitting")
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	if d.DeliveryType == order.DeliveryDelivery && req.ShippingFee <= 0 {
		return nil, fmt.Errorf("delivery orders require a shipping fee greater than zero")
	}

	tagIDs := make([]uuid.UUID, 0, len(req.TagIDs))
	for _, raw := range req.TagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid tag id %q: %w", raw, err)
		}
		tagIDs = append(tagIDs, id)
	}

	o := &order.Order{
		StoreID:       storeID,
		CustomerID:    *d.CustomerID,
		DeliveryType:  d.DeliveryType,
		DeliveryDate:  d.DeliveryDate,
		DeliveryTime:  d.DeliveryTime,
		AddressID:     d.AddressID,
		ShippingFee:   req.ShippingFee,
		Discount:      req.Discount,
		PaymentStatus: req.PaymentStatus,
		Note:          req.Note,
		TagIDs:        tagIDs,
		CreatedBy:     userID,
	}
	for _, item := range d.Items {
		o.Items = append(o.Items, &order.Item{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Options:     item.Options,
		})
	}

	var created *order.Order
	if d.EditOrderID != nil {
		created, err = s.orders.ReplaceOrder(ctx, d.EditOrderID.String(), o)
	} else {
		created, err = s.orders.CreateOrder(ctx, o)
	}
	if err != nil {
		// Draft stays open so the attendant can fix and retry.
		return nil, err
	}

	if err := s.drafts.Delete(ctx, storeID, userID); err != nil {
		s.logger.Warn("submitted order but failed to clear draft",
			zap.String("order_id", created.ID.String()), zap.Error(err))
	}
	return created, nil
}

func (s *service) Cancel(ctx context.Context, storeID, userID uuid.UUID) error {
	return s.drafts.Delete(ctx, storeID, userID)
}

func (s *service) load(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error) {
	d, err := s.drafts.Get(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNoDraft
	}
	return d, nil
}

func (s *service) save(ctx context.Context, d *Draft) (*Draft, error) {
	d.UpdatedAt = time.Now()
	if err := s.drafts.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
