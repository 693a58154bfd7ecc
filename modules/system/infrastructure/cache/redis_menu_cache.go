// Package cache holds the shared-store implementations of the system module caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/services"
)

type RedisMenuCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisMenuCache stores used menus under "<prefix>:menus:used:<app>" so every
// instance of the service sees the same invalidations.
func NewRedisMenuCache(client *redis.Client, prefix string, ttl time.Duration) services.MenuCache {
	return &RedisMenuCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisMenuCache) key(appID string) string {
	if c.prefix == "" {
		return "menus:used:" + appID
	}
	return c.prefix + ":menus:used:" + appID
}

func (c *RedisMenuCache) Get(ctx context.Context, appID string) ([]*menu.Menu, bool, error) {
	raw, err := c.client.Get(ctx, c.key(appID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, gerrors.Wrap(err, "redis get used menus")
	}
	var menus []*menu.Menu
	if err := json.Unmarshal(raw, &menus); err != nil {
		// A payload written by an incompatible version is treated as a miss.
		return nil, false, nil
	}
	return menus, true, nil
}

func (c *RedisMenuCache) Set(ctx context.Context, appID string, menus []*menu.Menu) error {
	if appID == "" {
		return nil
	}
	if menus == nil {
		menus = []*menu.Menu{}
	}
	payload, err := json.Marshal(menus)
	if err != nil {
		return gerrors.Wrap(err, "encode used menus")
	}
	if err := c.client.Set(ctx, c.key(appID), payload, c.ttl).Err(); err != nil {
		return gerrors.Wrap(err, "redis set used menus")
	}
	return nil
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, appID string) error {
	if err := c.client.Del(ctx, c.key(appID)).Err(); err != nil {
		return gerrors.Wrap(err, "redis del used menus")
	}
	return nil
}
