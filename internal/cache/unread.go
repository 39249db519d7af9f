// Package cache holds the redis-backed unread-badge counter cache.
// It fronts the grouped SQL aggregation; entries are TTL'd and dropped
// on any read-marking write, so redis being down only costs extra reads.
package cache

import (
	"context"
	"strconv"
	"time"

	"nalia-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	unreadKeyPrefix = "unread:user:"
	unreadTTL       = 10 * time.Minute
)

const (
	fieldEventMessages  = "event_messages"
	fieldDirectMessages = "direct_messages"
	fieldNotifications  = "notifications"
)

// UnreadCache caches per-user unread counts in a redis hash
type UnreadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUnreadCache creates a new unread cache
func NewUnreadCache(rdb *redis.Client) *UnreadCache {
	return &UnreadCache{rdb: rdb, ttl: unreadTTL}
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

// Get returns cached counts and whether the entry was present
func (c *UnreadCache) Get(ctx context.Context, userID string) (*models.UnreadCounts, bool) {
	fields, err := c.rdb.HGetAll(ctx, unreadKey(userID)).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	parse := func(field string) int64 {
		n, _ := strconv.ParseInt(fields[field], 10, 64)
		return n
	}
	return &models.UnreadCounts{
		EventMessages:  parse(fieldEventMessages),
		DirectMessages: parse(fieldDirectMessages),
		Notifications:  parse(fieldNotifications),
	}, true
}

// Set stores counts with the cache TTL. Errors are swallowed: the SQL
// aggregation remains the source of truth.
func (c *UnreadCache) Set(ctx context.Context, userID string, counts *models.UnreadCounts) {
	k := unreadKey(userID)
	if err := c.rdb.HSet(ctx, k,
		fieldEventMessages, counts.EventMessages,
		fieldDirectMessages, counts.DirectMessages,
		fieldNotifications, counts.Notifications,
	).Err(); err != nil {
		return
	}
	_ = c.rdb.Expire(ctx, k, c.ttl).Err()
}

// Invalidate drops the cached entry, forcing the next read to recompute
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	_ = c.rdb.Del(ctx, unreadKey(userID)).Err()
}
