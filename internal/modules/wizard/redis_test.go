package wizard

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	storeID, userID := uuid.New(), uuid.New()
	custID := uuid.New()
	d := &Draft{
		StoreID:    storeID,
		UserID:     userID,
		Step:       StepDelivery,
		CustomerID: &custID,
		Items: []*DraftItem{
			{ProductID: uuid.New(), ProductName: "Açaí", Quantity: 2, UnitPrice: 18.90, LineTotal: 37.80},
		},
	}
	require.NoError(t, store.Put(ctx, d))

	got, err := store.Get(ctx, storeID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StepDelivery, got.Step)
	assert.Equal(t, custID, *got.CustomerID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 37.80, got.Items[0].LineTotal)
}

func TestRedisStore_MissReturnsNil(t *testing.T) {
	store, _ := newRedisStore(t)

	got, err := store.Get(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_DraftsExpire(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	d := &Draft{StoreID: uuid.New(), UserID: uuid.New(), Step: StepCustomer}
	require.NoError(t, store.Put(ctx, d))

	mr.FastForward(DraftTTL + 1)

	got, err := store.Get(ctx, d.StoreID, d.UserID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_DeleteClearsDraft(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	d := &Draft{StoreID: uuid.New(), UserID: uuid.New(), Step: StepItems}
	require.NoError(t, store.Put(ctx, d))
	require.NoError(t, store.Delete(ctx, d.StoreID, d.UserID))

	got, err := store.Get(ctx, d.StoreID, d.UserID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_ScopedPerUser(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	storeID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.Put(ctx, &Draft{StoreID: storeID, UserID: alice, Step: StepItems}))

	got, err := store.Get(ctx, storeID, bob)
	require.NoError(t, err)
	assert.Nil(t, got)
}
