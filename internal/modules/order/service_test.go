package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	created  *Order
	replaced *Order
}

func (f *fakeRepo) Create(_ context.Context, o *Order) error  { f.created = o; return nil }
func (f *fakeRepo) Replace(_ context.Context, o *Order) error { f.replaced = o; return nil }
func (f *fakeRepo) GetByID(_ context.Context, _ string) (*Order, error) {
	if f.created != nil {
		return f.created, nil
	}
	return nil, assert.AnError
}
func (f *fakeRepo) List(_ context.Context, _ string, _ Filters) ([]*Order, int, error) {
	return nil, 0, nil
}
func (f *fakeRepo) ListOpen(_ context.Context, _ string) ([]*Order, error) { return nil, nil }
func (f *fakeRepo) UpdateStatus(_ context.Context, _ string, _ *PaymentStatus, _ *FulfillmentStatus) error {
	return nil
}
func (f *fakeRepo) ReplaceTags(_ context.Context, _ string, _ []string) error { return nil }
func (f *fakeRepo) Delete(_ context.Context, _ string) error                  { return nil }

func validOrder() *Order {
	return &Order{
		StoreID:      uuid.New(),
		CustomerID:   uuid.New(),
		DeliveryType: DeliveryPickup,
		DeliveryDate: "2026-09-05",
		DeliveryTime: "18:30",
		Items: []*Item{
			{ProductID: uuid.New(), ProductName: "Bolo de chocolate", Quantity: 2, UnitPrice: 25.00},
		},
	}
}

func TestCreateOrder_TotalsInvariant(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	o := validOrder()
	o.ShippingFee = 0
	o.Discount = 5.00

	created, err := svc.CreateOrder(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, 50.00, created.Subtotal)
	assert.Equal(t, 45.00, created.Total)
	assert.Equal(t, 50.00, created.Items[0].LineTotal)
}

func TestCreateOrder_ShippingAndDiscount(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	addr := uuid.New()
	o := validOrder()
	o.DeliveryType = DeliveryDelivery
	o.AddressID = &addr
	o.ShippingFee = 10.00
	o.Discount = 5.00

	created, err := svc.CreateOrder(context.Background(), o)
	require.NoError(t, err)

	// subtotal 50.00, shipping 10.00, discount 5.00 => total 55.00
	assert.Equal(t, 55.00, created.Total)
}

func TestCreateOrder_UnitPriceWithAddons(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	o := validOrder()
	o.Items = []*Item{
		{
			ProductID:   uuid.New(),
			ProductName: "Açaí 500ml",
			Quantity:    3,
			UnitPrice:   18.90, // 15.00 base + 2.50 + 1.40 addons, computed upstream
			Options: []*ChosenOption{
				{GroupName: "Cobertura", OptionName: "Leite condensado", Price: 2.50},
				{GroupName: "Extras", OptionName: "Granola", Price: 1.40},
			},
		},
	}

	created, err := svc.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, 56.70, created.Items[0].LineTotal)
	assert.Equal(t, 56.70, created.Subtotal)
}

func TestCreateOrder_DeliveryRequiresAddressAndShipping(t *testing.T) {
	svc := NewService(&fakeRepo{}, zap.NewNop())

	o := validOrder()
	o.DeliveryType = DeliveryDelivery
	_, err := svc.CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "address")

	addr := uuid.New()
	o = validOrder()
	o.DeliveryType = DeliveryDelivery
	o.AddressID = &addr
	o.ShippingFee = 0
	_, err = svc.CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "shipping fee")
}

func TestCreateOrder_RequiresItems(t *testing.T) {
	svc := NewService(&fakeRepo{}, zap.NewNop())

	o := validOrder()
	o.Items = nil
	_, err := svc.CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "at least one item")
}

func TestCreateOrder_DefaultsStatuses(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	created, err := svc.CreateOrder(context.Background(), validOrder())
	require.NoError(t, err)
	assert.Equal(t, PaymentUnpaid, created.PaymentStatus)
	assert.Equal(t, FulfillmentNotDelivered, created.FulfillmentStatus)
}

func TestCreateOrder_RejectsUnknownStatuses(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	o := validOrder()
	o.PaymentStatus = PaymentStatus("PENDING")
	_, err := svc.CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "invalid payment_status")
	assert.Nil(t, repo.created)

	o = validOrder()
	o.FulfillmentStatus = FulfillmentStatus("SHIPPED")
	_, err = svc.CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "invalid fulfillment_status")
	assert.Nil(t, repo.created)
}

func TestReplaceOrder_RejectsUnknownStatuses(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	o := validOrder()
	o.PaymentStatus = PaymentStatus("MAYBE")
	_, err := svc.ReplaceOrder(context.Background(), uuid.NewString(), o)
	assert.ErrorContains(t, err, "invalid payment_status")
	assert.Nil(t, repo.replaced)
}

func TestUpdateStatus_RejectsUnknownValues(t *testing.T) {
	svc := NewService(&fakeRepo{}, zap.NewNop())

	bad := PaymentStatus("MAYBE")
	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), StatusUpdateRequest{PaymentStatus: &bad})
	assert.ErrorContains(t, err, "invalid payment_status")

	_, err = svc.UpdateStatus(context.Background(), uuid.NewString(), StatusUpdateRequest{})
	assert.ErrorContains(t, err, "nothing to update")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 55.00, round2(55.001))
	assert.Equal(t, 55.01, round2(55.009))
	assert.Equal(t, -2.35, round2(-2.351))
	assert.Equal(t, 0.30, round2(0.1+0.2))
}
