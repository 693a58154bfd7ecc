package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/configuration"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/middleware"
	"github.com/laurel-hq/laurel/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
	// Redis is optional; without it the rate limiter keeps its counters in memory.
	Redis *redis.Client
}

func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusNotFound, httpapi.EnsureRequestID(r), "ROUTE_NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
}

func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpapi.WriteError(w, http.StatusMethodNotAllowed, httpapi.EnsureRequestID(r), "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path)
	})
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader
	loggerOpts.RealIPHeader = conf.RealIPHeader

	// WithLogger opens the root span of each request.
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts),

		middleware.TracedMiddleware("database"),
		middleware.Provide(constants.AppKey, app),
		middleware.ProvidePool(options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.CorsAllowedOrigins...),

		middleware.TracedMiddleware("appScope"),
		middleware.WithAppID(conf.AppIDHeader),
	}

	if conf.RateLimit.Enabled {
		var store limiter.Store
		switch conf.RateLimit.Storage {
		case "redis":
			if options.Redis == nil {
				options.Logger.Warn("rate limit storage is redis but no client was configured, falling back to memory")
				store = middleware.NewMemoryStore()
				break
			}
			var err error
			store, err = middleware.NewRedisStore(options.Redis)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             store,
			}),
		)
	}

	app.RegisterMiddleware(middlewares...)
	app.RegisterControllers(server.NewHealthController(pingerOrNil(options.Pool)))

	return server.NewHTTPServer(app, NotFound(), MethodNotAllowed()), nil
}

// A nil *pgxpool.Pool must not become a non-nil Pinger.
func pingerOrNil(pool *pgxpool.Pool) server.Pinger {
	if pool == nil {
		return nil
	}
	return pool
}
