package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/modules/system/presentation/mappers"
	"github.com/laurel-hq/laurel/modules/system/presentation/viewmodels"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/repo"
)

type microServiceQuery struct {
	AppID         string            `json:"app_id"`
	ServiceName   string            `json:"service_name"`
	ServiceStatus string            `json:"service_status"`
	Pagination    *repo.PageRequest `json:"pagination"`
}

type MicroServiceController struct {
	app      application.Application
	services *services.MicroServiceService
	basePath string
}

func NewMicroServiceController(app application.Application) application.Controller {
	return &MicroServiceController{
		app:      app,
		services: app.Service(services.MicroServiceService{}).(*services.MicroServiceService),
		basePath: "/api/system/fe-micro-service",
	}
}

func (c *MicroServiceController) Key() string {
	return c.basePath
}

func (c *MicroServiceController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()

	api.HandleFunc("/page/services", c.Page).Methods(http.MethodPost)
	api.HandleFunc("/list/services", c.List).Methods(http.MethodPost)
	api.HandleFunc("/used/services", c.Used).Methods(http.MethodGet)
	api.HandleFunc("/status/options", c.StatusOptions).Methods(http.MethodGet)
	api.HandleFunc("/create", c.Create).Methods(http.MethodPost)
	api.HandleFunc("/update", c.Update).Methods(http.MethodPost)
}

func toServiceViewModels(list []*microservice.Service) []*viewmodels.MicroService {
	out := make([]*viewmodels.MicroService, 0, len(list))
	for i, s := range list {
		out = append(out, mappers.MicroServiceToViewModel(uint32(i+1), s))
	}
	return out
}

func (c *MicroServiceController) Page(w http.ResponseWriter, r *http.Request) {
	var q microServiceQuery
	if !decodeBody(w, r, &q) {
		return
	}
	ctx, ok := scope(w, r, q.AppID)
	if !ok {
		return
	}
	req := repo.PageRequest{}
	if q.Pagination != nil {
		req = *q.Pagination
	}
	page, err := c.services.Page(ctx,
		&microservice.FindParams{ServiceName: q.ServiceName, Status: q.ServiceStatus}, req)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, repo.MapPageIndexed(page, mappers.MicroServiceToViewModel))
}

func (c *MicroServiceController) List(w http.ResponseWriter, r *http.Request) {
	var q microServiceQuery
	if !decodeBody(w, r, &q) {
		return
	}
	ctx, ok := scope(w, r, q.AppID)
	if !ok {
		return
	}
	list, err := c.services.List(ctx,
		&microservice.FindParams{ServiceName: q.ServiceName, Status: q.ServiceStatus})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, toServiceViewModels(list))
}

func (c *MicroServiceController) Used(w http.ResponseWriter, r *http.Request) {
	list, err := c.services.Used(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, toServiceViewModels(list))
}

func (c *MicroServiceController) StatusOptions(w http.ResponseWriter, _ *http.Request) {
	httpapi.OK(w, mappers.Options(microservice.Statuses))
}

func (c *MicroServiceController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateMicroServiceInput
	if !decodeBody(w, r, &in) {
		return
	}
	svc, err := c.services.Create(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MicroServiceToViewModel(0, svc))
}

func (c *MicroServiceController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateMicroServiceInput
	if !decodeBody(w, r, &in) {
		return
	}
	svc, err := c.services.Update(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MicroServiceToViewModel(0, svc))
}
