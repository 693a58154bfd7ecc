package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/presentation/mappers"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/httpapi"
	"github.com/laurel-hq/laurel/pkg/repo"
)

type menuQuery struct {
	AppID        string            `json:"app_id"`
	MenuID       string            `json:"menu_id"`
	MenuIDs      []string          `json:"menu_ids"`
	MenuName     string            `json:"menu_name"`
	MenuType     string            `json:"menu_type"`
	MenuTypes    []string          `json:"menu_types"`
	ActionType   string            `json:"menu_action_type"`
	MenuRoute    string            `json:"menu_route"`
	ParentID     string            `json:"parent_id"`
	ParentIDs    []string          `json:"parent_ids"`
	Authority    string            `json:"authority"`
	MenuStatus   string            `json:"menu_status"`
	MenuStatuses []string          `json:"menu_statuses"`
	Pagination   *repo.PageRequest `json:"pagination"`
}

func (q *menuQuery) findParams() *menu.FindParams {
	return &menu.FindParams{
		MenuID:     q.MenuID,
		MenuIDs:    q.MenuIDs,
		MenuName:   q.MenuName,
		MenuType:   q.MenuType,
		MenuTypes:  q.MenuTypes,
		ActionType: q.ActionType,
		MenuRoute:  q.MenuRoute,
		ParentID:   q.ParentID,
		ParentIDs:  q.ParentIDs,
		Authority:  q.Authority,
		Status:     q.MenuStatus,
		Statuses:   q.MenuStatuses,
	}
}

type menuKeyQuery struct {
	MenuID string `form:"menu_id"`
}

type MenuController struct {
	app      application.Application
	menus    *services.MenuService
	basePath string
}

func NewMenuController(app application.Application) application.Controller {
	return &MenuController{
		app:      app,
		menus:    app.Service(services.MenuService{}).(*services.MenuService),
		basePath: "/api/system/menu",
	}
}

func (c *MenuController) Key() string {
	return c.basePath
}

func (c *MenuController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()

	api.HandleFunc("", c.Find).Methods(http.MethodGet)
	api.HandleFunc("/create", c.Create).Methods(http.MethodPost)
	api.HandleFunc("/update", c.Update).Methods(http.MethodPost)

	api.HandleFunc("/state/options", c.StatusOptions).Methods(http.MethodGet)
	api.HandleFunc("/action/options", c.ActionOptions).Methods(http.MethodGet)
	api.HandleFunc("/type/options", c.TypeOptions).Methods(http.MethodGet)

	api.HandleFunc("/list", c.List).Methods(http.MethodPost)
	api.HandleFunc("/page", c.Page).Methods(http.MethodPost)
	api.HandleFunc("/tree", c.UsedTree).Methods(http.MethodGet)
	api.HandleFunc("/tree/all", c.AllTree).Methods(http.MethodPost)

	api.HandleFunc("/descendants", c.Descendants).Methods(http.MethodGet)
	api.HandleFunc("/ancestors", c.Ancestors).Methods(http.MethodGet)
}

func (c *MenuController) Find(w http.ResponseWriter, r *http.Request) {
	var q menuKeyQuery
	if !decodeQuery(w, r, &q) {
		return
	}
	m, err := c.menus.GetByMenuID(r.Context(), q.MenuID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenuToViewModel(m))
}

func (c *MenuController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateMenuInput
	if !decodeBody(w, r, &in) {
		return
	}
	m, err := c.menus.Create(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenuToViewModel(m))
}

func (c *MenuController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateMenuInput
	if !decodeBody(w, r, &in) {
		return
	}
	m, err := c.menus.Update(r.Context(), &in)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenuToViewModel(m))
}

func (c *MenuController) StatusOptions(w http.ResponseWriter, _ *http.Request) {
	httpapi.OK(w, mappers.Options(menu.Statuses))
}

func (c *MenuController) ActionOptions(w http.ResponseWriter, _ *http.Request) {
	httpapi.OK(w, mappers.Options(menu.ActionTypes))
}

func (c *MenuController) TypeOptions(w http.ResponseWriter, _ *http.Request) {
	httpapi.OK(w, mappers.Options(menu.Types))
}

func (c *MenuController) List(w http.ResponseWriter, r *http.Request) {
	var q menuQuery
	if !decodeBody(w, r, &q) {
		return
	}
	ctx, ok := scope(w, r, q.AppID)
	if !ok {
		return
	}
	menus, err := c.menus.List(ctx, q.findParams())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenusToViewModels(menus))
}

func (c *MenuController) Page(w http.ResponseWriter, r *http.Request) {
	var q menuQuery
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
	page, err := c.menus.Page(ctx, q.findParams(), req)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, repo.MapPageIndexed(page, mappers.MenuToIndexedViewModel))
}

func (c *MenuController) UsedTree(w http.ResponseWriter, r *http.Request) {
	forest, err := c.menus.UsedTree(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenuForestToViewModels(forest))
}

func (c *MenuController) AllTree(w http.ResponseWriter, r *http.Request) {
	var q menuQuery
	if !decodeBody(w, r, &q) {
		return
	}
	ctx, ok := scope(w, r, q.AppID)
	if !ok {
		return
	}
	forest, err := c.menus.Tree(ctx, q.findParams())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, mappers.MenuForestToViewModels(forest))
}

func (c *MenuController) Descendants(w http.ResponseWriter, r *http.Request) {
	var q menuKeyQuery
	if !decodeQuery(w, r, &q) {
		return
	}
	keys, err := c.menus.Descendants(r.Context(), q.MenuID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, keys)
}

func (c *MenuController) Ancestors(w http.ResponseWriter, r *http.Request) {
	var q menuKeyQuery
	if !decodeQuery(w, r, &q) {
		return
	}
	keys, err := c.menus.Ancestors(r.Context(), q.MenuID)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, keys)
}
