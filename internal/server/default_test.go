package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/configuration"
	"github.com/laurel-hq/laurel/pkg/eventbus"
	"github.com/laurel-hq/laurel/pkg/httpapi"
)

func testConfiguration() *configuration.Configuration {
	return &configuration.Configuration{
		RateLimit:          configuration.RateLimitOptions{Enabled: true, GlobalRPS: 100, Storage: "redis"},
		RequestIDHeader:    "X-Request-ID",
		RealIPHeader:       "X-Real-IP",
		AppIDHeader:        "X-App-Id",
		CorsAllowedOrigins: []string{"http://localhost:3000"},
	}
}

func TestDefault_ServesJSONFallbacksAndHealth(t *testing.T) {
	logger := logrus.New()
	app := application.New(&application.ApplicationOptions{
		Logger:   logger,
		EventBus: eventbus.NewEventPublisher(logger),
	})
	srv, err := Default(&DefaultOptions{
		Logger:        logger,
		Configuration: testConfiguration(),
		Application:   app,
	})
	require.NoError(t, err)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "ROUTE_NOT_FOUND", env.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"database":"disabled"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
