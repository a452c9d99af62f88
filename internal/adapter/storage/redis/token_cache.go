package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenCache implements ports.TokenCache using Redis. It holds the
// gateway access token obtained via /login so a tenant without a stored
// token does not re-authenticate on every payment.
type TokenCache struct {
	client *goredis.Client
	prefix string
}

// NewTokenCache creates a new Redis-backed gateway token cache.
func NewTokenCache(client *goredis.Client) *TokenCache {
	return &TokenCache{
		client: client,
		prefix: "gateway_token:",
	}
}

// Get retrieves the cached token for a tenant. Returns "" when absent.
func (c *TokenCache) Get(ctx context.Context, memberID string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+memberID).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis token get: %w", err)
	}
	return val, nil
}

// Set stores a tenant's gateway token with TTL.
func (c *TokenCache) Set(ctx context.Context, memberID string, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+memberID, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis token set: %w", err)
	}
	return nil
}
