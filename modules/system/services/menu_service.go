package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/eventbus"
	"github.com/laurel-hq/laurel/pkg/hierarchy"
	"github.com/laurel-hq/laurel/pkg/repo"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

const usedMenusCache = "used_menus"

// Two concurrent moves (a under b, b under a) each pass the cycle check on their own
// snapshot; serializable isolation makes one of them fail instead of storing a loop.
var reparentTxOptions = pgx.TxOptions{IsoLevel: pgx.Serializable}

type MenuTree = hierarchy.Tree[*menu.Menu]

type CreateMenuInput struct {
	AppID      string `json:"app_id"`
	MenuName   string `json:"menu_name" validate:"required,max=64"`
	MenuType   string `json:"menu_type" validate:"required"`
	ActionType string `json:"menu_action_type" validate:"required"`
	MenuIcon   string `json:"menu_icon" validate:"max=64"`
	MenuRoute  string `json:"menu_route" validate:"max=255"`
	RouteParam string `json:"route_param" validate:"max=255"`
	Weight     int32  `json:"weight"`
	ParentID   string `json:"parent_id" validate:"max=40"`
	Authority  string `json:"authority" validate:"max=128"`
	Status     string `json:"menu_status"`
}

// UpdateMenuInput is a partial update; nil fields are left untouched.
type UpdateMenuInput struct {
	AppID      string  `json:"app_id"`
	MenuID     string  `json:"menu_id"`
	MenuName   *string `json:"menu_name" validate:"omitempty,max=64"`
	MenuType   *string `json:"menu_type"`
	ActionType *string `json:"menu_action_type"`
	MenuIcon   *string `json:"menu_icon" validate:"omitempty,max=64"`
	MenuRoute  *string `json:"menu_route" validate:"omitempty,max=255"`
	RouteParam *string `json:"route_param" validate:"omitempty,max=255"`
	Weight     *int32  `json:"weight"`
	ParentID   *string `json:"parent_id" validate:"omitempty,max=40"`
	Authority  *string `json:"authority" validate:"omitempty,max=128"`
	Status     *string `json:"menu_status"`
}

type MenuService struct {
	repo      menu.Repository
	cache     MenuCache
	publisher eventbus.EventBus
	newID     func() string
	now       func() time.Time

	// generations counts invalidations per app; a used-menu read only reaches the
	// cache when no invalidation happened while it was loading.
	genMu       sync.Mutex
	generations map[string]uint64
}

func NewMenuService(repo menu.Repository, cache MenuCache, publisher eventbus.EventBus) *MenuService {
	if cache == nil {
		cache = NewNopMenuCache()
	}
	return &MenuService{
		repo:        repo,
		cache:       cache,
		publisher:   publisher,
		newID:       newULID,
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

func menuNotFound(menuID string, cause error) *serrors.ServiceError {
	return serrors.NotFound("MENU_NOT_FOUND", "menu "+menuID+" not found", cause)
}

func (s *MenuService) List(ctx context.Context, params *menu.FindParams) ([]*menu.Menu, error) {
	menus, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	return menus, nil
}

func (s *MenuService) Page(ctx context.Context, params *menu.FindParams, req repo.PageRequest) (*repo.Page[*menu.Menu], error) {
	if params == nil {
		params = &menu.FindParams{}
	}
	page, err := composables.PageInSnapshot(ctx, req,
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, params) },
		func(ctx context.Context, offset, limit int) ([]*menu.Menu, error) {
			p := *params
			p.Offset, p.Limit = offset, limit
			return s.repo.List(ctx, &p)
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return page, nil
}

// Tree assembles every menu matching params, whatever its status.
func (s *MenuService) Tree(ctx context.Context, params *menu.FindParams) ([]*MenuTree, error) {
	menus, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, menus), nil
}

// UsedTree assembles the open menus reachable from open roots of the scoped app.
func (s *MenuService) UsedTree(ctx context.Context) ([]*MenuTree, error) {
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, appIDRequired()
	}
	logger := composables.UseLogger(ctx)

	menus, hit, err := s.cache.Get(ctx, appID)
	if err != nil {
		logger.WithError(err).WithField("app_id", appID).Warn("menu cache lookup failed")
		hit = false
	}
	recordCacheRequest(usedMenusCache, hit)
	if !hit {
		gen := s.generation(appID)
		menus, err = s.repo.ListUsed(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		s.storeUsed(ctx, appID, gen, menus)
	}
	return s.assemble(ctx, menus), nil
}

func (s *MenuService) generation(appID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[appID]
}

// storeUsed caches menus read at generation gen. A load that raced with an
// invalidation is served once but not cached.
func (s *MenuService) storeUsed(ctx context.Context, appID string, gen uint64, menus []*menu.Menu) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	logger := composables.UseLogger(ctx).WithField("app_id", appID)
	if s.generations[appID] != gen {
		logger.Debug("used menus changed while loading, not caching them")
		return
	}
	if err := s.cache.Set(ctx, appID, menus); err != nil {
		logger.WithError(err).Warn("menu cache store failed")
	}
}

// InvalidateUsedTree drops the cached used menus of appID.
func (s *MenuService) InvalidateUsedTree(ctx context.Context, appID, reason string) error {
	s.genMu.Lock()
	s.generations[appID]++
	s.genMu.Unlock()
	recordCacheInvalidate(reason)
	return s.cache.Invalidate(ctx, appID)
}

func (s *MenuService) assemble(ctx context.Context, menus []*menu.Menu) []*MenuTree {
	forest, dropped := hierarchy.Assemble(menus)
	if len(dropped) > 0 {
		recordDroppedNodes("menu", len(dropped))
		keys := make([]string, 0, len(dropped))
		for _, m := range dropped {
			keys = append(keys, m.MenuID)
		}
		composables.UseLogger(ctx).WithField("menu_ids", keys).
			Warn("menus unreachable from a root were left out of the tree")
	}
	return forest
}

func (s *MenuService) GetByMenuID(ctx context.Context, menuID string) (*menu.Menu, error) {
	menuID = strings.TrimSpace(menuID)
	if menuID == "" {
		return nil, serrors.BadRequest("MENU_ID_REQUIRED", "menu_id is required")
	}
	m, err := s.repo.GetByMenuID(ctx, menuID)
	if errors.Is(err, menu.ErrNotFound) {
		return nil, menuNotFound(menuID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (s *MenuService) Descendants(ctx context.Context, menuID string) ([]string, error) {
	keys, err := s.repo.DescendantsOf(ctx, menuID)
	if err != nil {
		return nil, mapError(err)
	}
	return keys, nil
}

func (s *MenuService) Ancestors(ctx context.Context, menuID string) ([]string, error) {
	keys, err := s.repo.AncestorsOf(ctx, menuID)
	if err != nil {
		return nil, mapError(err)
	}
	return keys, nil
}

func (s *MenuService) Create(ctx context.Context, in *CreateMenuInput) (*menu.Menu, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	ctx, appID, err := ScopeApp(ctx, in.AppID)
	if err != nil {
		return nil, err
	}
	menuType, err := parseMenuType(in.MenuType)
	if err != nil {
		return nil, err
	}
	actionType, err := parseActionType(in.ActionType)
	if err != nil {
		return nil, err
	}
	status := menu.StatusOpen
	if strings.TrimSpace(in.Status) != "" {
		if status, err = parseMenuStatus(in.Status); err != nil {
			return nil, err
		}
	}

	now := s.now()
	m := &menu.Menu{
		AppID:      appID,
		MenuID:     s.newID(),
		MenuName:   strings.TrimSpace(in.MenuName),
		MenuType:   menuType,
		ActionType: actionType,
		MenuIcon:   in.MenuIcon,
		MenuRoute:  in.MenuRoute,
		RouteParam: in.RouteParam,
		Weight:     in.Weight,
		Authority:  in.Authority,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.ParentID = m.MenuID
	if parentID := strings.TrimSpace(in.ParentID); parentID != "" {
		if err := s.requireParent(ctx, parentID); err != nil {
			return nil, err
		}
		m.ParentID = parentID
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, mapError(err)
	}
	s.publisher.Publish(&menu.CreatedEvent{AppID: appID, Result: *m})
	return m, nil
}

func (s *MenuService) Update(ctx context.Context, in *UpdateMenuInput) (*menu.Menu, error) {
	menuID := strings.TrimSpace(in.MenuID)
	if menuID == "" {
		return nil, serrors.BadRequest("MENU_ID_REQUIRED", "menu_id is required")
	}
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	ctx, appID, err := ScopeApp(ctx, in.AppID)
	if err != nil {
		return nil, err
	}

	var before menu.Menu
	updated, err := composables.InTxResultWith(ctx, reparentTxOptions, func(txCtx context.Context) (*menu.Menu, error) {
		current, err := s.repo.GetByMenuID(txCtx, menuID)
		if errors.Is(err, menu.ErrNotFound) {
			return nil, menuNotFound(menuID, err)
		}
		if err != nil {
			return nil, err
		}
		if current.IsDeleted() {
			return nil, serrors.Conflict("MENU_DELETED", "menu "+menuID+" is deleted")
		}
		before = *current

		if in.ParentID != nil {
			parentID := strings.TrimSpace(*in.ParentID)
			if parentID == "" {
				parentID = menuID
			}
			if parentID != menuID {
				ok, err := hierarchy.CanReparent(txCtx, s.repo, menuID, parentID)
				if err != nil {
					return nil, err
				}
				if !ok {
					recordReparentRejected("menu")
					return nil, serrors.Unprocessable("MENU_PARENT_CYCLE",
						"menu "+menuID+" cannot be moved under its own descendant "+parentID, hierarchy.ErrCycle)
				}
				if err := s.requireParent(txCtx, parentID); err != nil {
					return nil, err
				}
			}
			current.ParentID = parentID
		}
		if err := applyMenuPatch(current, in); err != nil {
			return nil, err
		}
		current.UpdatedAt = s.now()

		if err := s.repo.Update(txCtx, current); err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				return nil, menuNotFound(menuID, err)
			}
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.publisher.Publish(&menu.UpdatedEvent{AppID: appID, Data: before, Result: *updated})
	return updated, nil
}

func (s *MenuService) requireParent(ctx context.Context, parentID string) error {
	exists, err := s.repo.Exists(ctx, parentID)
	if err != nil {
		return err
	}
	if !exists {
		return serrors.Unprocessable("MENU_PARENT_NOT_FOUND", "parent menu "+parentID+" not found", nil)
	}
	return nil
}

func applyMenuPatch(m *menu.Menu, in *UpdateMenuInput) error {
	if in.MenuName != nil {
		name := strings.TrimSpace(*in.MenuName)
		if name == "" {
			return serrors.BadRequest("INVALID_ARGUMENT", "menu_name must not be empty")
		}
		m.MenuName = name
	}
	if in.MenuType != nil {
		t, err := parseMenuType(*in.MenuType)
		if err != nil {
			return err
		}
		m.MenuType = t
	}
	if in.ActionType != nil {
		a, err := parseActionType(*in.ActionType)
		if err != nil {
			return err
		}
		m.ActionType = a
	}
	if in.Status != nil {
		st, err := parseMenuStatus(*in.Status)
		if err != nil {
			return err
		}
		m.Status = st
	}
	if in.MenuIcon != nil {
		m.MenuIcon = *in.MenuIcon
	}
	if in.MenuRoute != nil {
		m.MenuRoute = *in.MenuRoute
	}
	if in.RouteParam != nil {
		m.RouteParam = *in.RouteParam
	}
	if in.Weight != nil {
		m.Weight = *in.Weight
	}
	if in.Authority != nil {
		m.Authority = *in.Authority
	}
	return nil
}

func invalidOption(field, value string) *serrors.ServiceError {
	return serrors.New(http.StatusUnprocessableEntity, "INVALID_OPTION", field+" "+value+" is not a known option", nil)
}

func parseMenuType(v string) (menu.Type, error) {
	t, ok := menu.Types.Find(strings.TrimSpace(v))
	if !ok {
		return "", invalidOption("menu_type", v)
	}
	return t, nil
}

func parseActionType(v string) (menu.ActionType, error) {
	a, ok := menu.ActionTypes.Find(strings.TrimSpace(v))
	if !ok {
		return "", invalidOption("menu_action_type", v)
	}
	return a, nil
}

func parseMenuStatus(v string) (menu.Status, error) {
	st, ok := menu.Statuses.Find(strings.TrimSpace(v))
	if !ok {
		return "", invalidOption("menu_status", v)
	}
	return st, nil
}
