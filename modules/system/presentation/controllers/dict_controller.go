package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/presentation/mappers"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/repo"
)

type dictQuery struct {
	DictID   string `form:"dict_id"`
	DictName string `form:"dict_name"`
	Page     uint32 `form:"page"`
	Size     uint32 `form:"size"`
}

type dictValueQuery struct {
	DictID    string `form:"dict_id"`
	ValueID   string `form:"value_id"`
	ValueName string `form:"value_name"`
	Page      uint32 `form:"page"`
	Size      uint32 `form:"size"`
}

type DictController struct {
	app      application.Application
	dicts    *services.DictService
	basePath string
}

func NewDictController(app application.Application) application.Controller {
	return &DictController{
		app:      app,
		dicts:    app.Service(services.DictService{}).(*services.DictService),
		basePath: "/api/system/dict",
	}
}

func (c *DictController) Key() string {
	return c.basePath
}

func (c *DictController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()

	api.HandleFunc("/pages", c.Page).Methods(http.MethodGet)
	api.HandleFunc("/create", c.Create).Methods(http.MethodPost)
	api.HandleFunc("/update", c.Update).Methods(http.MethodPost)
	api.HandleFunc("/delete", c.Delete).Methods(http.MethodPost)

	api.HandleFunc("/value/pages", c.PageValues).Methods(http.MethodGet)
	api.HandleFunc("/value/create", c.CreateValue).Methods(http.MethodPost)
	api.HandleFunc("/value/update", c.UpdateValue).Methods(http.MethodPost)
	api.HandleFunc("/value/delete", c.DeleteValue).Methods(http.MethodPost)

	api.HandleFunc("/type/options", c.TypeOptions).Methods(http.MethodGet)
}

func (c *DictController) Page(w http.ResponseWriter, r *http.Request) {
	var q dictQuery
	if !decodeQuery(w, r, &q) {
		return
	}
	page, err := c.dicts.Page(r.Context(),
		&dict.FindParams{DictID: q.DictID, DictName: q.DictName},
		repo.PageRequest{Page: q.Page, Size: q.Size},
	)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, repo.MapPageIndexed(page, mappers.DictToViewModel))
}

func (c *DictController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateDictInput
	if !decodeBody(w, r, &in) {
		return
	}
	d, err := c.dicts.Create(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictToViewModel(0, d))
}

func (c *DictController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateDictInput
	if !decodeBody(w, r, &in) {
		return
	}
	d, err := c.dicts.Update(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictToViewModel(0, d))
}

func (c *DictController) Delete(w http.ResponseWriter, r *http.Request) {
	var in services.DeleteDictInput
	if !decodeBody(w, r, &in) {
		return
	}
	d, err := c.dicts.Delete(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictToViewModel(0, d))
}

func (c *DictController) PageValues(w http.ResponseWriter, r *http.Request) {
	var q dictValueQuery
	if !decodeQuery(w, r, &q) {
		return
	}
	page, err := c.dicts.PageValues(r.Context(),
		&dict.ValueFindParams{DictID: q.DictID, ValueID: q.ValueID, ValueName: q.ValueName},
		repo.PageRequest{Page: q.Page, Size: q.Size},
	)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, repo.MapPageIndexed(page, mappers.DictValueToViewModel))
}

func (c *DictController) CreateValue(w http.ResponseWriter, r *http.Request) {
	var in services.CreateDictValueInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := c.dicts.CreateValue(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictValueToViewModel(0, v))
}

func (c *DictController) UpdateValue(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateDictValueInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := c.dicts.UpdateValue(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictValueToViewModel(0, v))
}

func (c *DictController) DeleteValue(w http.ResponseWriter, r *http.Request) {
	var in services.DeleteDictValueInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := c.dicts.DeleteValue(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.DictValueToViewModel(0, v))
}

func (c *DictController) TypeOptions(w http.ResponseWriter, _ *http.Request) {
	httpapi.OK(w, mappers.Options(dict.Types))
}
