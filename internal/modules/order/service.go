package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the order management business logic.
type Service interface {
	// CreateOrder validates the aggregate's invariants, recomputes totals
	// from the line items and persists everything atomically.
	CreateOrder(ctx context.Context, o *Order) (*Order, error)

	// ReplaceOrder fully replaces an existing order's header, items and tag
	// links (wizard edit mode).
	ReplaceOrder(ctx context.Context, id string, o *Order) (*Order, error)

	// GetOrder retrieves a full order with items and tag links.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// ListOrders returns a filtered page of a store's orders with the total
	// match count.
	ListOrders(ctx context.Context, storeID string, f Filters) ([]*Order, int, error)

	// ListOpenOrders returns the orders the board partitions.
	ListOpenOrders(ctx context.Context, storeID string) ([]*Order, error)

	// UpdateStatus flips the payment and/or fulfillment flag.
	UpdateStatus(ctx context.Context, id string, req StatusUpdateRequest) (*Order, error)

	// LinkTags replaces the order's tag set.
	LinkTags(ctx context.Context, id string, tagIDs []string) error

	// DeleteOrder removes the order and everything hanging off it.
	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	if err := s.prepare(o); err != nil {
		return nil, err
	}
	o.ID = uuid.New()
	for _, item := range o.Items {
		item.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("store_id", o.StoreID.String()),
		zap.Float64("total", o.Total),
		zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *service) ReplaceOrder(ctx context.Context, id string, o *Order) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}
	if err := s.prepare(o); err != nil {
		return nil, err
	}
	o.ID = oid
	for _, item := range o.Items {
		item.ID = uuid.New()
	}

	if err := s.repo.Replace(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to replace order: %w", err)
	}
	s.logger.Info("order replaced", zap.String("order_id", id))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, storeID string, f Filters) ([]*Order, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	return s.repo.List(ctx, storeID, f)
}

func (s *service) ListOpenOrders(ctx context.Context, storeID string) ([]*Order, error) {
	return s.repo.ListOpen(ctx, storeID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req StatusUpdateRequest) (*Order, error) {
	if req.PaymentStatus == nil && req.FulfillmentStatus == nil {
		return nil, fmt.Errorf("nothing to update")
	}
	if req.PaymentStatus != nil && *req.PaymentStatus != PaymentPaid && *req.PaymentStatus != PaymentUnpaid {
		return nil, fmt.Errorf("invalid payment_status %q", *req.PaymentStatus)
	}
	if req.FulfillmentStatus != nil && *req.FulfillmentStatus != FulfillmentDelivered && *req.FulfillmentStatus != FulfillmentNotDelivered {
		return nil, fmt.Errorf("invalid fulfillment_status %q", *req.FulfillmentStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, req.PaymentStatus, req.FulfillmentStatus); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) LinkTags(ctx context.Context, id string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := uuid.Parse(tagID); err != nil {
			return fmt.Errorf("invalid tag id %q: %w", tagID, err)
		}
	}
	return s.repo.ReplaceTags(ctx, id, tagIDs)
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.String("order_id", id))
	return nil
}

// prepare validates the aggregate and recomputes its money fields so the
// stored totals always satisfy total = subtotal + shipping - discount.
func (s *service) prepare(o *Order) error {
	if o.StoreID == uuid.Nil {
		return fmt.Errorf("store_id is required")
	}
	if o.CustomerID == uuid.Nil {
		return fmt.Errorf("customer_id is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	if o.DeliveryType != DeliveryPickup && o.DeliveryType != DeliveryDelivery {
		return fmt.Errorf("invalid delivery_type %q", o.DeliveryType)
	}
	if o.DeliveryType == DeliveryDelivery {
		if o.AddressID == nil {
			return fmt.Errorf("a delivery address is required for delivery orders")
		}
		if o.ShippingFee <= 0 {
			return fmt.Errorf("shipping fee must be greater than zero for delivery orders")
		}
	}
	if o.Discount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentUnpaid
	}
	if o.PaymentStatus != PaymentPaid && o.PaymentStatus != PaymentUnpaid {
		return fmt.Errorf("invalid payment_status %q", o.PaymentStatus)
	}
	if o.FulfillmentStatus == "" {
		o.FulfillmentStatus = FulfillmentNotDelivered
	}
	if o.FulfillmentStatus != FulfillmentDelivered && o.FulfillmentStatus != FulfillmentNotDelivered {
		return fmt.Errorf("invalid fulfillment_status %q", o.FulfillmentStatus)
	}

	var subtotal float64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be > 0 for product %s", item.ProductID)
		}
		item.LineTotal = round2(item.UnitPrice * float64(item.Quantity))
		subtotal += item.LineTotal
	}
	o.Subtotal = round2(subtotal)
	o.Total = round2(o.Subtotal + o.ShippingFee - o.Discount)
	return nil
}

func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
