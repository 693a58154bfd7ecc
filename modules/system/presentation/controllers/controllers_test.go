package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/presentation/viewmodels"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/eventbus"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/middleware"
)

// usedMenus serves ListUsed only; the tests below never reach the other methods.
type usedMenus struct {
	menu.Repository
	menus []*menu.Menu
}

func (r *usedMenus) ListUsed(context.Context) ([]*menu.Menu, error) {
	out := make([]*menu.Menu, 0, len(r.menus))
	for _, m := range r.menus {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func newRouter(t *testing.T, menus ...*menu.Menu) *mux.Router {
	t.Helper()
	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(nil),
	})
	app.RegisterServices(
		services.NewMenuService(&usedMenus{menus: menus}, services.NewMemoryMenuCache(time.Minute), app.EventPublisher()),
		services.NewDictService(nil, nil),
		services.NewMicroServiceService(nil),
	)
	app.RegisterControllers(
		NewMenuController(app),
		NewDictController(app),
		NewMicroServiceController(app),
	)

	r := mux.NewRouter()
	r.Use(middleware.WithAppID("X-App-Id"))
	for _, c := range app.Controllers() {
		c.Register(r)
	}
	return r
}

func serve(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResult[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out httpapi.Result[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, http.StatusOK, out.Code)
	require.Equal(t, "success", out.Message)
	return out.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	var out httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestOptionEndpoints(t *testing.T) {
	r := newRouter(t)
	cases := []struct {
		path string
		want []string
	}{
		{"/api/system/menu/state/options", []string{"open", "closed", "deleted"}},
		{"/api/system/menu/type/options", []string{"menu", "btn"}},
		{"/api/system/menu/action/options", []string{"route", "link", "iframe"}},
		{"/api/system/fe-micro-service/status/options", []string{"open", "closed"}},
		{"/api/system/dict/type/options", []string{"custom", "default"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := serve(r, http.MethodGet, tc.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			opts := decodeResult[[]viewmodels.Option](t, w)
			values := make([]string, 0, len(opts))
			for _, o := range opts {
				require.NotEmpty(t, o.Label)
				values = append(values, o.Value)
			}
			require.ElementsMatch(t, tc.want, values)
		})
	}
}

func TestMenuController_UsedTree(t *testing.T) {
	r := newRouter(t,
		&menu.Menu{AppID: "portal", MenuID: "root", ParentID: "root", MenuName: "Root", Status: menu.StatusOpen},
		&menu.Menu{AppID: "portal", MenuID: "a", ParentID: "root", MenuName: "A", Status: menu.StatusOpen},
	)

	w := serve(r, http.MethodGet, "/api/system/menu/tree", "", map[string]string{"X-App-Id": "portal"})
	require.Equal(t, http.StatusOK, w.Code)
	forest := decodeResult[[]*viewmodels.Menu](t, w)
	require.Len(t, forest, 1)
	require.Equal(t, "root", forest[0].MenuID)
	require.Len(t, forest[0].Children, 1)
	require.Equal(t, "a", forest[0].Children[0].MenuID)
	require.Equal(t, "Root", forest[0].Children[0].ParentName)
}

func TestMenuController_UsedTreeWithoutApp(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodGet, "/api/system/menu/tree", "", map[string]string{"X-Request-ID": "req-1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeError(t, w)
	require.Equal(t, "APP_ID_REQUIRED", env.Code)
	require.Equal(t, "req-1", env.Meta["request_id"])
}

func TestMenuController_RejectsUnknownFields(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodPost, "/api/system/menu/list", `{"app_id":"portal","colour":"red"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_JSON", decodeError(t, w).Code)
}

func TestMenuController_ListAppMismatch(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodPost, "/api/system/menu/list", `{"app_id":"admin"}`, map[string]string{"X-App-Id": "portal"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "APP_ID_MISMATCH", decodeError(t, w).Code)
}

func TestDictController_ValuePagesNeedDictID(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodGet, "/api/system/dict/value/pages?page=1&size=5", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "DICT_ID_REQUIRED", decodeError(t, w).Code)
}

func TestDictController_BadQuery(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodGet, "/api/system/dict/pages?page=first", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_QUERY", decodeError(t, w).Code)
}

func TestMicroServiceController_PageNeedsApp(t *testing.T) {
	r := newRouter(t)
	w := serve(r, http.MethodPost, "/api/system/fe-micro-service/page/services", `{"pagination":{"page":1,"size":10}}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "APP_ID_REQUIRED", decodeError(t, w).Code)
}
