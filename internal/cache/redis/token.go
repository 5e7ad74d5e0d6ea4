package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/recipe-server/internal/model"
)

var _ model.TokenCache = (*TokenCache)(nil)

const tokenKeyPrefix = "auth:token:"

// TokenCache maps token keys to user IDs with a TTL.
type TokenCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewTokenCache(client redis.Cmdable, ttl time.Duration) *TokenCache {
	return &TokenCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *TokenCache) Get(ctx context.Context, key string) (int64, bool, error) {
	userID, err := c.client.Get(ctx, tokenKeyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get cached token: %w", err)
	}
	return userID, true, nil
}

func (c *TokenCache) Set(ctx context.Context, key string, userID int64) error {
	if err := c.client.Set(ctx, tokenKeyPrefix+key, userID, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	return nil
}
