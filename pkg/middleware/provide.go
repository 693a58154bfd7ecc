package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/constants"
)

func Provide(k constants.ContextKey, v any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), k, v)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProvidePool makes the pool reachable through composables.UsePool / UseTx.
func ProvidePool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// WithAppID scopes the request to the application named by header, or by the
// app_id query parameter when the header is absent. Requests without either
// pass through unscoped; handlers that need a scope reject them.
func WithAppID(header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			appID := strings.TrimSpace(r.Header.Get(header))
			if appID == "" {
				appID = strings.TrimSpace(r.URL.Query().Get("app_id"))
			}
			if appID != "" {
				r = r.WithContext(composables.WithAppID(r.Context(), appID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
