package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DraftTTL keeps abandoned drafts from piling up. Any write refreshes it.
const DraftTTL = 24 * time.Hour

type redisStore struct{ client *redis.Client }

// NewRedisStore creates a Redis-backed DraftStore. Drafts are stored as JSON
// under one key per (store, user) pair with a sliding 24h expiry.
func NewRedisStore(client *redis.Client) DraftStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, storeID, userID uuid.UUID) (*Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(storeID, userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (s *redisStore) Put(ctx context.Context, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(d.StoreID, d.UserID), raw, DraftTTL).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, storeID, userID uuid.UUID) error {
	if err := s.client.Del(ctx, draftKey(storeID, userID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
