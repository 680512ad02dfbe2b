package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ViewCounter tallies post views in Redis.
// Key format: views:<slug>
type ViewCounter struct {
	client *redis.Client
}

// NewViewCounter creates a ViewCounter wrapping the given Redis client.
func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

// Increment bumps the view count for a post and returns the new total.
func (v *ViewCounter) Increment(ctx context.Context, slug string) (int64, error) {
	n, err := v.client.Incr(ctx, v.key(slug)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return n, nil
}

// Get returns the current view count for a post (0 when never viewed).
func (v *ViewCounter) Get(ctx context.Context, slug string) (int64, error) {
	n, err := v.client.Get(ctx, v.key(slug)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get views: %w", err)
	}
	return n, nil
}

func (v *ViewCounter) key(slug string) string {
	return "views:" + slug
}
