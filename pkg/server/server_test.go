package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestRouter_WrapsFallbackHandlersWithMiddleware(t *testing.T) {
	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Tagged", "1")
			next.ServeHTTP(w, r)
		})
	}
	s := &HTTPServer{
		Controllers:     nil,
		Middlewares:     []mux.MiddlewareFunc{tagged},
		NotFoundHandler: http.NotFoundHandler(),
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "1", w.Header().Get("X-Tagged"))
}

func TestHealthController(t *testing.T) {
	cases := []struct {
		name   string
		db     Pinger
		status int
		body   string
	}{
		{"no database", nil, http.StatusOK, `"database":"disabled"`},
		{"healthy", pinger{}, http.StatusOK, `"status":"ok"`},
		{"unreachable", pinger{err: errors.New("conn refused")}, http.StatusServiceUnavailable, `"status":"degraded"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &HTTPServer{Controllers: nil}
			r := s.Router()
			NewHealthController(tc.db).Register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tc.status, w.Code)
			require.Contains(t, w.Body.String(), tc.body)
		})
	}
}
