package cache

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/configuration"
)

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(url string) (*redis.Client, error) {
	if strings.Contains(url, "://") {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: url}), nil
}

// NewMenuCache picks the used-menu cache for opts.Backend. client is only
// required for the redis backend.
func NewMenuCache(opts configuration.CacheOptions, client *redis.Client) (services.MenuCache, error) {
	switch opts.Backend {
	case "none":
		return services.NewNopMenuCache(), nil
	case "", "memory":
		return services.NewMemoryMenuCache(opts.TTL), nil
	case "redis":
		if client == nil {
			return nil, errors.New("redis menu cache requires a client")
		}
		return NewRedisMenuCache(client, opts.Prefix, opts.TTL), nil
	default:
		return nil, errors.Errorf("unknown cache backend %q", opts.Backend)
	}
}
