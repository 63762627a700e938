package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadKeyPrefix = "notifications:unread:"

// RedisUnreadCache holds per-recipient unread counts. Writers invalidate, readers fill.
type RedisUnreadCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisUnreadCache(client redis.Cmdable, ttl time.Duration) *RedisUnreadCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisUnreadCache{client: client, ttl: ttl}
}

func unreadKey(recipientID string) string {
	return unreadKeyPrefix + recipientID
}

// Get returns the cached count; ok is false on a miss.
func (c *RedisUnreadCache) Get(ctx context.Context, recipientID string) (count int, ok bool, err error) {
	count, err = c.client.Get(ctx, unreadKey(recipientID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get unread count: %w", err)
	}
	return count, true, nil
}

func (c *RedisUnreadCache) Set(ctx context.Context, recipientID string, count int) error {
	if err := c.client.Set(ctx, unreadKey(recipientID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("set unread count: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, recipientIDs ...string) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	keys := make([]string, len(recipientIDs))
	for i, r := range recipientIDs {
		keys[i] = unreadKey(r)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate unread counts: %w", err)
	}
	return nil
}
