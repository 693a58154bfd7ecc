package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/laurel-hq/laurel/modules/logging/presentation/mappers"
	"github.com/laurel-hq/laurel/modules/logging/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/repo"
)

type LogsController struct {
	app         application.Application
	logsService *services.LogsService
	basePath    string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:         app,
		logsService: app.Service(services.LogsService{}).(*services.LogsService),
		basePath:    "/api/logs/login",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()
	api.HandleFunc("/pages", c.Page).Methods(http.MethodPost)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := httpapi.DecodeJSON(r.Body, out); err != nil && !errors.Is(err, io.EOF) {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.EnsureRequestID(r), "INVALID_JSON", err.Error())
		return false
	}
	return true
}

func (c *LogsController) Page(w http.ResponseWriter, r *http.Request) {
	var in services.QueryLoginLogInput
	if !decodeBody(w, r, &in) {
		return
	}
	page, err := c.logsService.Page(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, repo.MapPageIndexed(page, mappers.LoginLogToViewModel))
}

// InterfaceController takes login attempts reported by other services.
type InterfaceController struct {
	app         application.Application
	logsService *services.LogsService
	basePath    string
}

func NewInterfaceController(app application.Application) application.Controller {
	return &InterfaceController{
		app:         app,
		logsService: app.Service(services.LogsService{}).(*services.LogsService),
		basePath:    "/interface/logs/login",
	}
}

func (c *InterfaceController) Key() string {
	return c.basePath
}

func (c *InterfaceController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()
	api.HandleFunc("/create", c.Create).Methods(http.MethodPost)
}

func (c *InterfaceController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateLoginLogInput
	if !decodeBody(w, r, &in) {
		return
	}
	id, err := c.logsService.Create(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, id)
}
