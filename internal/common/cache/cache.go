package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mint-portal-backend/internal/platform/redis"

	go_redis "github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is absent or expired.
var ErrMiss = go_redis.Nil

// Service is a small JSON cache over redis, used only for advisory display
// data. Authoritative figures (prices, balances) are never served from it.
type Service struct {
	redisClient *redis.Client
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{redisClient: redisClient}
}

func (c *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.redisClient.Set(ctx, key, string(data), ttl).Err()
}

func (c *Service) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}
