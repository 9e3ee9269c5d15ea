package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
)

// RedisRouteCache stores routes as JSON strings with a TTL.
type RedisRouteCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisRouteCache(client redis.UniversalClient, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) ([]domain.MapPoint, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var route []domain.MapPoint
	if err := json.Unmarshal(raw, &route); err != nil {
		return nil, false, fmt.Errorf("decode cached route %s: %w", key, err)
	}
	return route, true, nil
}

func (c *RedisRouteCache) Set(ctx context.Context, key string, route []domain.MapPoint) error {
	raw, err := json.Marshal(route)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
