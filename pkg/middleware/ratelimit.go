package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/httpapi"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
	// TrustForwardHeader keys clients by X-Forwarded-For / X-Real-IP instead of RemoteAddr.
	TrustForwardHeader bool
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

func NewRedisStore(client *redis.Client) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "laurel:ratelimit",
	})
}

// RateLimit rejects requests beyond cfg.RequestsPerPeriod per client with a JSON 429.
// A non-positive limit disables the middleware.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	if cfg.RequestsPerPeriod <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Second
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	instance := limiter.New(cfg.Store, limiter.Rate{
		Period: cfg.Period,
		Limit:  int64(cfg.RequestsPerPeriod),
	}, limiter.WithTrustForwardHeader(cfg.TrustForwardHeader))

	mw := limiterhttp.NewMiddleware(instance,
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			httpapi.WriteError(w, http.StatusTooManyRequests, httpapi.EnsureRequestID(r), "RATE_LIMITED", "too many requests")
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			composables.UseLogger(r.Context()).WithError(err).Error("rate limiter store failed")
			httpapi.WriteError(w, http.StatusServiceUnavailable, httpapi.EnsureRequestID(r), "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
		}),
	)
	return mw.Handler
}
