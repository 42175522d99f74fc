package balances

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a versioned read-through cache for computed balances. Every
// successful post, void, close, or reopen bumps the scope version,
// which orphans all keys built against the old one. A nil cache (or nil
// client) degrades to calling the loader directly.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(userID, periodID int64) string {
	return fmt.Sprintf("balances:ver:%d:%d", userID, periodID)
}

func (c *Cache) version(ctx context.Context, userID, periodID int64) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(userID, periodID)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, versionKey(userID, periodID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// FetchJSON loads a cached value or populates it from the loader.
func (c *Cache) FetchJSON(ctx context.Context, userID, periodID int64, name string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("balances: cache loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}
	ver, err := c.version(ctx, userID, periodID)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("balances:%d:%d:%s:%d", userID, periodID, name, ver)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached value for the user+period scope.
func (c *Cache) Bump(ctx context.Context, userID, periodID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(userID, periodID)).Err()
}

func reencode(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
