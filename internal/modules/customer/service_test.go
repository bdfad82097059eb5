package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	customers map[string]*Customer // keyed by phone
	addresses []*Address
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: map[string]*Customer{}}
}

func (f *fakeRepo) Create(_ context.Context, c *Customer) error {
	f.customers[c.Phone] = c
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Customer, error) {
	for _, c := range f.customers {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeRepo) GetByPhone(_ context.Context, _, phone string) (*Customer, error) {
	return f.customers[phone], nil
}

func (f *fakeRepo) Search(_ context.Context, _, _ string, _, _ int) ([]*Customer, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(_ context.Context, _ *Customer) error { return nil }
func (f *fakeRepo) Delete(_ context.Context, _ string) error    { return nil }

func (f *fakeRepo) CreateAddress(_ context.Context, a *Address) error {
	f.addresses = append(f.addresses, a)
	return nil
}

func (f *fakeRepo) ListAddresses(_ context.Context, _ string) ([]*Address, error) {
	return f.addresses, nil
}

func (f *fakeRepo) GetAddress(_ context.Context, _ string) (*Address, error) {
	return nil, assert.AnError
}

func (f *fakeRepo) CountAddresses(_ context.Context, customerID string) (int, error) {
	n := 0
	for _, a := range f.addresses {
		if a.CustomerID.String() == customerID {
			n++
		}
	}
	return n, nil
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"(11) 98765-4321", "11987654321", false},
		{"11987654321", "11987654321", false},
		{"+55 11 98765-4321", "5511987654321", false},
		{"9876-4321", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrPhoneTooShort, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFindByPhone_NormalizesBeforeLookup(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	storeID := uuid.New()

	created, err := svc.QuickRegister(context.Background(), storeID.String(),
		CreateCustomerRequest{Name: "Maria Silva", Phone: "(11) 98765-4321"})
	require.NoError(t, err)
	assert.Equal(t, "11987654321", created.Phone)

	found, err := svc.FindByPhone(context.Background(), storeID.String(), "11 98765 4321")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestFindByPhone_NoMatchIsNotAnError(t *testing.T) {
	svc := NewService(newFakeRepo())

	found, err := svc.FindByPhone(context.Background(), uuid.NewString(), "11987654321")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestQuickRegister_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())
	storeID := uuid.NewString()

	_, err := svc.QuickRegister(context.Background(), storeID, CreateCustomerRequest{Name: " ", Phone: "11987654321"})
	assert.Error(t, err)

	_, err = svc.QuickRegister(context.Background(), storeID, CreateCustomerRequest{Name: "Ana", Phone: "1234"})
	assert.ErrorIs(t, err, ErrPhoneTooShort)
}

func TestQuickRegister_DuplicatePhoneRejected(t *testing.T) {
	svc := NewService(newFakeRepo())
	storeID := uuid.NewString()

	_, err := svc.QuickRegister(context.Background(), storeID, CreateCustomerRequest{Name: "Ana", Phone: "11987654321"})
	require.NoError(t, err)

	_, err = svc.QuickRegister(context.Background(), storeID, CreateCustomerRequest{Name: "Bia", Phone: "(11) 98765-4321"})
	assert.Error(t, err)
}

func TestCreateAddress_FirstIsPrincipal(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	customerID := uuid.New()

	first, err := svc.CreateAddress(context.Background(), customerID.String(), CreateAddressRequest{
		Street: "Rua das Flores", Number: "100", City: "São Paulo", State: "SP",
	})
	require.NoError(t, err)
	assert.True(t, first.Principal)

	second, err := svc.CreateAddress(context.Background(), customerID.String(), CreateAddressRequest{
		Street: "Av. Paulista", Number: "1500", City: "São Paulo", State: "SP",
	})
	require.NoError(t, err)
	assert.False(t, second.Principal)
}

func TestCreateAddress_RequiredFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateAddress(context.Background(), uuid.NewString(), CreateAddressRequest{
		Street: "Rua das Flores", Number: "100", City: "São Paulo",
	})
	assert.Error(t, err)
}
