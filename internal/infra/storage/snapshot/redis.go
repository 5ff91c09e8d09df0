package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
)

// DefaultKey ключ снимка справочника в Redis
const DefaultKey = "directory:snapshot"

// RedisCache хранит снимок справочника в Redis в виде JSON
type RedisCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisCache создает кэш поверх клиента Redis
func NewRedisCache(client redis.Cmdable, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultKey
	}
	return &RedisCache{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Get читает снимок; ErrCacheMiss, если ключа нет
func (c *RedisCache) Get(ctx context.Context) (*domain.DirectorySnapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrCacheRead, c.key, err)
	}

	var snap domain.DirectorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCacheCorrupted, c.key, err)
	}

	return &snap, nil
}

// Set сохраняет снимок с TTL
func (c *RedisCache) Set(ctx context.Context, snap *domain.DirectorySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCacheWrite, err)
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCacheWrite, c.key, err)
	}

	return nil
}

// Invalidate удаляет снимок из кэша
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrCacheWrite, c.key, err)
	}
	return nil
}
