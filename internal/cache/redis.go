package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/glidewallet/swap-engine/internal/domain"
)

const redisKeyPrefix = "swapengine:quote:"

// RedisStore is the shared quote store. GETDEL makes Claim atomic across
// replicas; TTL expiry is native.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, id string, entry *domain.CachedQuoteEntry, ttl time.Duration) error {
	payload, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+id, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.CachedQuoteEntry, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEntry(payload)
}

func (s *RedisStore) Claim(ctx context.Context, id string) (*domain.CachedQuoteEntry, error) {
	payload, err := s.client.GetDel(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEntry(payload)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

func decodeEntry(payload []byte) (*domain.CachedQuoteEntry, error) {
	var entry domain.CachedQuoteEntry
	if err := sonic.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}
