package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DraftStore persists at most one draft per (store, user) pair. Get returns
// (nil, nil) when no draft exists.
type DraftStore interface {
	Get(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error)
	Put(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, storeID, userID uuid.UUID) error
}

func draftKey(storeID, userID uuid.UUID) string {
	return fmt.Sprintf("wizard:draft:%s:%s", storeID, userID)
}

// memoryStore keeps drafts in process memory. Used in tests and when no
// Redis address is configured.
type memoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewMemoryStore creates an in-process DraftStore.
func NewMemoryStore() DraftStore {
	return &memoryStore{drafts: map[string]*Draft{}}
}

func (m *memoryStore) Get(_ context.Context, storeID, userID uuid.UUID) (*Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[draftKey(storeID, userID)]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *memoryStore) Put(_ context.Context, d *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *d
	m.drafts[draftKey(d.StoreID, d.UserID)] = &copied
	return nil
}

func (m *memoryStore) Delete(_ context.Context, storeID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftKey(storeID, userID))
	return nil
}
