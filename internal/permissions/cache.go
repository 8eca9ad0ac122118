package permissions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 5 * time.Minute

// loader fetches the granted permission names from the source of truth.
type loader interface {
	PermissionsOf(ctx context.Context, userID int64) ([]string, error)
}

// Cache is a read-through cache over the grants table. Concurrent lookups
// for the same user collapse into a single database query. Redis outages
// degrade to direct loads; they never fail a permission check by themselves.
type Cache struct {
	loader loader
	redis  *redis.Client
	group  singleflight.Group
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache constructs a Cache around the loader. The redis client may be
// nil, in which case only the singleflight collapse applies.
func NewCache(loader loader, rdb *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{loader: loader, redis: rdb, ttl: defaultCacheTTL, logger: logger}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("perm:user:%d", userID)
}

// PermissionsOf returns the granted permission names for the user.
func (c *Cache) PermissionsOf(ctx context.Context, userID int64) ([]string, error) {
	key := cacheKey(userID)
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, key).Result()
		if err == nil {
			var names []string
			if jsonErr := json.Unmarshal([]byte(raw), &names); jsonErr == nil {
				return names, nil
			}
			// Unreadable entry: drop it and fall through to the loader.
			c.redis.Del(ctx, key)
		} else if err != redis.Nil {
			c.warn("permission cache read failed", userID, err)
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		names, err := c.loader.PermissionsOf(ctx, userID)
		if err != nil {
			return nil, err
		}
		if c.redis != nil {
			if payload, jsonErr := json.Marshal(names); jsonErr == nil {
				if setErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
					c.warn("permission cache write failed", userID, setErr)
				}
			}
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Invalidate drops the cached entry so the next lookup sees fresh grants.
// Called after every assign and revoke.
func (c *Cache) Invalidate(ctx context.Context, userID int64) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		c.warn("permission cache invalidation failed", userID, err)
	}
}

func (c *Cache) warn(msg string, userID int64, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, slog.Int64("user_id", userID), slog.Any("error", err))
	}
}
