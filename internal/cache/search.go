package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storeops/replenish-backend/internal/config"
	"github.com/storeops/replenish-backend/internal/domain"
)

const (
	searchKeyPrefix  = "search:items"
	scanBatchSize    = 100
	defaultSearchTTL = time.Minute
)

// SearchCache shields the store from repeats of the same search while a
// clerk pages through results. Invalidated wholesale on snapshot upserts.
type SearchCache interface {
	Get(ctx context.Context, scope, query string) ([]domain.StoreItem, bool, error)
	Set(ctx context.Context, scope, query string, items []domain.StoreItem) error
	InvalidateAll(ctx context.Context) error
}

type redisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSearchCache struct{}

func NewSearchCache(cfg config.CacheConfig) (SearchCache, error) {
	if !cfg.Enabled {
		return &noopSearchCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.SearchTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}

	return &redisSearchCache{client: client, ttl: ttl}, nil
}

func NewNoopSearchCache() SearchCache {
	return &noopSearchCache{}
}

func searchKey(scope, query string) string {
	sum := sha1.Sum([]byte(scope + "\x00" + query))
	return searchKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

func (c *redisSearchCache) Get(ctx context.Context, scope, query string) ([]domain.StoreItem, bool, error) {
	payload, err := c.client.Get(ctx, searchKey(scope, query)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.StoreItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("corrupt cache payload: %w", err)
	}
	return items, true, nil
}

func (c *redisSearchCache) Set(ctx context.Context, scope, query string, items []domain.StoreItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}
	if err := c.client.Set(ctx, searchKey(scope, query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSearchCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, searchKeyPrefix+":", scanBatchSize)
}

func (c *noopSearchCache) Get(context.Context, string, string) ([]domain.StoreItem, bool, error) {
	return nil, false, nil
}

func (c *noopSearchCache) Set(context.Context, string, string, []domain.StoreItem) error {
	return nil
}

func (c *noopSearchCache) InvalidateAll(context.Context) error {
	return nil
}
