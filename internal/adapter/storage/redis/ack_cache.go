package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AckCache implements ports.AckCache using Redis. It remembers the
// acknowledgement already returned for a transaction code so gateway
// retries short-circuit without touching the database.
type AckCache struct {
	client *goredis.Client
	prefix string
}

// NewAckCache creates a new Redis-backed acknowledgement cache.
func NewAckCache(client *goredis.Client) *AckCache {
	return &AckCache{
		client: client,
		prefix: "ipn:",
	}
}

// Get retrieves the cached acknowledgement for a transaction code.
// Returns "" if the code has not been acknowledged yet.
func (c *AckCache) Get(ctx context.Context, code string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+code).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis ack get: %w", err)
	}
	return val, nil
}

// Set stores the acknowledgement for a transaction code with TTL.
func (c *AckCache) Set(ctx context.Context, code string, ack string, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+code, ack, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis ack set: %w", err)
	}
	return nil
}
