package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache backs the response cache with a shared Redis instance so
// replicas serve the same cached windows.
type RedisCache struct {
	cli *redis.Client
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	return &RedisCache{
		cli: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	b, err := r.cli.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.cli.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Ping verifies connectivity, used by the health endpoint when Redis is
// the active backend.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}
