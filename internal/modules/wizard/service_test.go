package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comandahub/comanda-backend/internal/modules/catalog"
	"github.com/comandahub/comanda-backend/internal/modules/customer"
	"github.com/comandahub/comanda-backend/internal/modules/order"
)

// ── fakes ──────────────────────────────────────────────────────────────────

type fakeCustomers struct {
	customer.Service
	byPhone   map[string]*customer.Customer
	addresses []*customer.Address
}

func (f *fakeCustomers) FindByPhone(_ context.Context, _, phone string) (*customer.Customer, error) {
	return f.byPhone[phone], nil
}

func (f *fakeCustomers) QuickRegister(_ context.Context, storeID string, req customer.CreateCustomerRequest) (*customer.Customer, error) {
	c := &customer.Customer{ID: uuid.New(), Name: req.Name, Phone: req.Phone}
	if f.byPhone == nil {
		f.byPhone = map[string]*customer.Customer{}
	}
	f.byPhone[req.Phone] = c
	return c, nil
}

func (f *fakeCustomers) CreateAddress(_ context.Context, customerID string, req customer.CreateAddressRequest) (*customer.Address, error) {
	if req.Street == "" || req.City == "" {
		return nil, errors.New("street and city are required")
	}
	a := &customer.Address{ID: uuid.New(), Street: req.Street, City: req.City}
	f.addresses = append(f.addresses, a)
	return a, nil
}

type fakeCatalog struct {
	catalog.Service
	products map[string]*catalog.Product
	groups   map[string][]*catalog.ComplementGroup
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return p, nil
}

func (f *fakeCatalog) GroupsForProduct(_ context.Context, p *catalog.Product) ([]*catalog.ComplementGroup, error) {
	return f.groups[p.ID.String()], nil
}

type fakeOrders struct {
	order.Service
	created   *order.Order
	replaced  *order.Order
	replaceID string
	existing  *order.Order
	failNext  error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *order.Order) (*order.Order, error) {
	if f.failNext != nil {
		return nil, f.failNext
	}
	o.ID = uuid.New()
	f.created = o
	return o, nil
}

func (f *fakeOrders) ReplaceOrder(_ context.Context, id string, o *order.Order) (*order.Order, error) {
	f.replaced, f.replaceID = o, id
	return o, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (*order.Order, error) {
	if f.existing == nil || f.existing.ID.String() != id {
		return nil, errors.New("order not found")
	}
	return f.existing, nil
}

// ── fixtures ───────────────────────────────────────────────────────────────

type fixture struct {
	svc       Service
	customers *fakeCustomers
	catalog   *fakeCatalog
	orders    *fakeOrders
	storeID   uuid.UUID
	userID    uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		customers: &fakeCustomers{byPhone: map[string]*customer.Customer{}},
		catalog:   &fakeCatalog{products: map[string]*catalog.Product{}, groups: map[string][]*catalog.ComplementGroup{}},
		orders:    &fakeOrders{},
		storeID:   uuid.New(),
		userID:    uuid.New(),
	}
	f.svc = NewService(NewMemoryStore(), f.customers, f.catalog, f.orders, zap.NewNop())
	return f
}

func (f *fixture) addProduct(name string, base float64, groups ...*catalog.ComplementGroup) *catalog.Product {
	p := &catalog.Product{ID: uuid.New(), StoreID: f.storeID, Name: name, BasePrice: base, IsActive: true}
	for _, g := range groups {
		p.ComplementGroupIDs = append(p.ComplementGroupIDs, g.ID)
	}
	f.catalog.products[p.ID.String()] = p
	f.catalog.groups[p.ID.String()] = groups
	return p
}

func group(name string, required bool, optionNames []string, prices []float64) *catalog.ComplementGroup {
	g := &catalog.ComplementGroup{ID: uuid.New(), Name: name, Required: required}
	for i, n := range optionNames {
		g.Options = append(g.Options, &catalog.Option{ID: uuid.New(), GroupID: g.ID, Name: n, AdditionalPrice: prices[i], Position: i})
	}
	return g
}

// advance walks a fresh draft to Step 3 with a pickup order.
func (f *fixture) advance(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)

	f.customers.byPhone["11987654321"] = &customer.Customer{ID: uuid.New(), Name: "Maria", Phone: "11987654321"}
	_, err = f.svc.SelectCustomer(ctx, f.storeID, f.userID, SelectCustomerRequest{Phone: "11987654321"})
	require.NoError(t, err)

	_, err = f.svc.SetDelivery(ctx, f.storeID, f.userID, DeliveryRequest{
		DeliveryType: order.DeliveryPickup,
		DeliveryDate: "2026-09-10",
		DeliveryTime: "18:00",
	})
	require.NoError(t, err)
}

// ── tests ──────────────────────────────────────────────────────────────────

func TestStartOrResume_KeepsExistingDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepCustomer, first.Step)

	f.customers.byPhone["11987654321"] = &customer.Customer{ID: uuid.New(), Phone: "11987654321"}
	_, err = f.svc.SelectCustomer(ctx, f.storeID, f.userID, SelectCustomerRequest{Phone: "11987654321"})
	require.NoError(t, err)

	resumed, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, resumed.Step)
	assert.NotNil(t, resumed.CustomerID)
}

func TestSelectCustomer_UnknownPhone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)

	_, err = f.svc.SelectCustomer(ctx, f.storeID, f.userID, SelectCustomerRequest{Phone: "11900000000"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestQuickRegister_ResolvesStepOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)

	d, err := f.svc.QuickRegister(ctx, f.storeID, f.userID, customer.CreateCustomerRequest{
		Name: "João", Phone: "11912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, d.Step)
	assert.Equal(t, "João", d.CustomerName)
}

func TestSetDelivery_RequiresDateTimeAndAddress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	f.customers.byPhone["11987654321"] = &customer.Customer{ID: uuid.New(), Phone: "11987654321"}
	_, err = f.svc.SelectCustomer(ctx, f.storeID, f.userID, SelectCustomerRequest{Phone: "11987654321"})
	require.NoError(t, err)

	_, err = f.svc.SetDelivery(ctx, f.storeID, f.userID, DeliveryRequest{
		DeliveryType: order.DeliveryPickup, DeliveryDate: "2026-09-10",
	})
	assert.ErrorContains(t, err, "delivery_time")

	_, err = f.svc.SetDelivery(ctx, f.storeID, f.userID, DeliveryRequest{
		DeliveryType: order.DeliveryDelivery, DeliveryDate: "2026-09-10", DeliveryTime: "18:00",
	})
	assert.ErrorContains(t, err, "address")

	d, err := f.svc.SetDelivery(ctx, f.storeID, f.userID, DeliveryRequest{
		DeliveryType: order.DeliveryDelivery, DeliveryDate: "2026-09-10", DeliveryTime: "18:00",
		NewAddress: &NewAddress{Street: "Rua A", Number: "10", City: "São Paulo", State: "SP"},
	})
	require.NoError(t, err)
	assert.Equal(t, StepItems, d.Step)
	assert.NotNil(t, d.AddressID)
}

func TestAddItem_RequiredGroupNamesTheGroup(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	toppings := group("Cobertura", true, []string{"Chocolate", "Morango"}, []float64{2.50, 3.00})
	p := f.addProduct("Açaí 500ml", 15.00, toppings)

	_, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cobertura")

	d, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{
		ProductID: p.ID.String(), Quantity: 2,
		Choices: []OptionChoice{{GroupID: toppings.ID.String(), OptionID: toppings.Options[1].ID.String()}},
	})
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 18.00, d.Items[0].UnitPrice)
	assert.Equal(t, 36.00, d.Items[0].LineTotal)
	assert.Equal(t, "Morango", d.Items[0].Options[0].OptionName)
}

func TestAddItem_OptionalGroupMaySkip(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	extras := group("Extras", false, []string{"Granola"}, []float64{1.40})
	p := f.addProduct("Açaí 300ml", 12.00, extras)

	d, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.00, d.Items[0].UnitPrice)
	assert.Empty(t, d.Items[0].Options)
}

func TestAddItem_RejectsForeignGroupChoice(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	p := f.addProduct("Coxinha", 8.00)
	_, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{
		ProductID: p.ID.String(), Quantity: 1,
		Choices:   []OptionChoice{{GroupID: uuid.NewString(), OptionID: uuid.NewString()}},
	})
	assert.ErrorContains(t, err, "not attached")
}

func TestBack_KeepsCollectedFields(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	d, err := f.svc.Back(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, d.Step)
	assert.NotNil(t, d.CustomerID)
	assert.Equal(t, "2026-09-10", d.DeliveryDate)

	d, err = f.svc.Back(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepCustomer, d.Step)

	// Already at Step 1: stays put.
	d, err = f.svc.Back(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepCustomer, d.Step)
}

func TestSubmit_CreatesOrderAndClearsDraft(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	p := f.addProduct("Bolo", 50.00)
	_, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{ProductID: p.ID.String(), Quantity: 1})
	require.NoError(t, err)

	o, err := f.svc.Submit(ctx, f.storeID, f.userID, SubmitRequest{Discount: 5.00})
	require.NoError(t, err)
	require.NotNil(t, f.orders.created)
	assert.Equal(t, f.storeID, o.StoreID)
	assert.Equal(t, f.userID, o.CreatedBy)
	assert.Equal(t, 5.00, o.Discount)

	_, err = f.svc.Submit(ctx, f.storeID, f.userID, SubmitRequest{})
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestSubmit_DeliveryWithoutShippingFeeBlocks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	_, err = f.svc.QuickRegister(ctx, f.storeID, f.userID, customer.CreateCustomerRequest{Name: "Ana", Phone: "11955554444"})
	require.NoError(t, err)
	_, err = f.svc.SetDelivery(ctx, f.storeID, f.userID, DeliveryRequest{
		DeliveryType: order.DeliveryDelivery, DeliveryDate: "2026-09-12", DeliveryTime: "12:00",
		NewAddress: &NewAddress{Street: "Rua B", Number: "1", City: "Campinas", State: "SP"},
	})
	require.NoError(t, err)

	p := f.addProduct("Marmita", 25.00)
	_, err = f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{ProductID: p.ID.String(), Quantity: 2})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.storeID, f.userID, SubmitRequest{ShippingFee: 0})
	assert.ErrorContains(t, err, "shipping fee")

	// Draft survives the failed submission.
	d, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Len(t, d.Items, 1)
}

func TestSubmit_FailureLeavesDraftOpen(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	p := f.addProduct("Torta", 40.00)
	_, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{ProductID: p.ID.String(), Quantity: 1})
	require.NoError(t, err)

	f.orders.failNext = errors.New("db down")
	_, err = f.svc.Submit(ctx, f.storeID, f.userID, SubmitRequest{})
	require.Error(t, err)

	d, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Len(t, d.Items, 1)
}

func TestBeginEdit_SubmitReplaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	custID := uuid.New()
	existing := &order.Order{
		ID: uuid.New(), StoreID: f.storeID, CustomerID: custID,
		DeliveryType: order.DeliveryPickup, DeliveryDate: "2026-09-03", DeliveryTime: "10:00",
		PaymentStatus: order.PaymentPaid, FulfillmentStatus: order.FulfillmentNotDelivered,
		Items: []*order.Item{{ID: uuid.New(), ProductID: uuid.New(), ProductName: "Pudim", Quantity: 1, UnitPrice: 20.00, LineTotal: 20.00}},
	}
	f.orders.existing = existing

	d, err := f.svc.BeginEdit(ctx, f.storeID, f.userID, existing.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StepItems, d.Step)
	require.NotNil(t, d.EditOrderID)
	assert.Len(t, d.Items, 1)

	_, err = f.svc.Submit(ctx, f.storeID, f.userID, SubmitRequest{PaymentStatus: order.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), f.orders.replaceID)
	assert.Nil(t, f.orders.created)
}

func TestBeginEdit_RejectsForeignStore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	foreign := &order.Order{ID: uuid.New(), StoreID: uuid.New(), CustomerID: uuid.New()}
	f.orders.existing = foreign

	_, err := f.svc.BeginEdit(ctx, f.storeID, f.userID, foreign.ID.String())
	assert.ErrorContains(t, err, "does not belong")
}

func TestRemoveItem(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	p := f.addProduct("Esfiha", 6.00)
	_, err := f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{ProductID: p.ID.String(), Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.storeID, f.userID, AddItemRequest{ProductID: p.ID.String(), Quantity: 3})
	require.NoError(t, err)

	d, err := f.svc.RemoveItem(ctx, f.storeID, f.userID, 0)
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 3, d.Items[0].Quantity)

	_, err = f.svc.RemoveItem(ctx, f.storeID, f.userID, 5)
	assert.ErrorContains(t, err, "no item at position")
}

func TestCancel_DiscardsDraft(t *testing.T) {
	f := newFixture()
	f.advance(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Cancel(ctx, f.storeID, f.userID))

	d, err := f.svc.StartOrResume(ctx, f.storeID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, StepCustomer, d.Step)
	assert.Nil(t, d.CustomerID)
}
