package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence/models"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/repo"
)

const menuColumns = `id, app_id, menu_id, menu_name, menu_type, menu_action_type, menu_icon, menu_route,
		route_param, weight, parent_id, authority, menu_status, cts, uts`

const (
	selectMenusQuery = `SELECT ` + menuColumns + ` FROM menu`

	// Roots are open menus that are their own parent; UNION (not UNION ALL) makes
	// cyclic parent links terminate.
	usedMenusQuery = `
		WITH RECURSIVE used_menu AS (
			SELECT ` + menuColumns + ` FROM menu
			WHERE app_id = $1 AND menu_id = parent_id AND menu_status = 'open'
			UNION
			SELECT m.id, m.app_id, m.menu_id, m.menu_name, m.menu_type, m.menu_action_type, m.menu_icon, m.menu_route,
				m.route_param, m.weight, m.parent_id, m.authority, m.menu_status, m.cts, m.uts
			FROM menu AS m
			INNER JOIN used_menu AS um ON m.parent_id = um.menu_id
			WHERE m.app_id = $1 AND m.menu_id != m.parent_id AND m.menu_status = 'open'
		)
		SELECT ` + menuColumns + ` FROM used_menu ORDER BY weight ASC, id ASC`

	descendantsQuery = `
		WITH RECURSIVE child_menu AS (
			SELECT menu_id FROM menu
			WHERE app_id = $1 AND parent_id = $2 AND menu_id != parent_id AND menu_status = 'open'
			UNION
			SELECT m.menu_id FROM menu AS m
			INNER JOIN child_menu AS cm ON m.parent_id = cm.menu_id
			WHERE m.app_id = $1 AND m.menu_id != m.parent_id AND m.menu_status = 'open'
		)
		SELECT menu_id FROM child_menu WHERE menu_id != $2`

	// Each step starts from an open non-root menu and yields its parent, so the
	// nearest closed ancestor is still reported.
	ancestorsQuery = `
		WITH RECURSIVE parent_menu AS (
			SELECT parent_id FROM menu
			WHERE app_id = $1 AND menu_id = $2 AND menu_id != parent_id AND menu_status = 'open'
			UNION
			SELECT m.parent_id FROM menu AS m
			INNER JOIN parent_menu AS pm ON m.menu_id = pm.parent_id
			WHERE m.app_id = $1 AND m.menu_id != m.parent_id AND m.menu_status = 'open'
		)
		SELECT parent_id FROM parent_menu WHERE parent_id != $2`

	insertMenuQuery = `
		INSERT INTO menu (app_id, menu_id, menu_name, menu_type, menu_action_type, menu_icon, menu_route,
			route_param, weight, parent_id, authority, menu_status, cts, uts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	updateMenuQuery = `
		UPDATE menu SET menu_name = $3, menu_type = $4, menu_action_type = $5, menu_icon = $6, menu_route = $7,
			route_param = $8, weight = $9, parent_id = $10, authority = $11, menu_status = $12, uts = $13
		WHERE app_id = $1 AND menu_id = $2`
)

type MenuRepository struct{}

func NewMenuRepository() menu.Repository {
	return &MenuRepository{}
}

func (r *MenuRepository) filter(ctx context.Context, params *menu.FindParams) (*repo.Filter, error) {
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.Scoped("app_id", appID)
	if params == nil {
		return f, nil
	}
	return f.
		Eq("menu_id", params.MenuID).
		In("menu_id", params.MenuIDs).
		Eq("menu_name", params.MenuName).
		Eq("menu_type", params.MenuType).
		In("menu_type", params.MenuTypes).
		Eq("menu_action_type", params.ActionType).
		ILike("menu_route", params.MenuRoute).
		Eq("parent_id", params.ParentID).
		In("parent_id", params.ParentIDs).
		ILike("authority", params.Authority).
		Eq("menu_status", params.Status).
		In("menu_status", params.Statuses), nil
}

// List returns menus ordered for tree assembly (weight, id). Paged listings are
// ordered newest first.
func (r *MenuRepository) List(ctx context.Context, params *menu.FindParams) ([]*menu.Menu, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f, err := r.filter(ctx, params)
	if err != nil {
		return nil, err
	}
	query := selectMenusQuery + f.Where()
	if params != nil && params.Limit > 0 {
		query += " ORDER BY id DESC " + repo.FormatLimitOffset(params.Limit, params.Offset)
	} else {
		query += " ORDER BY weight ASC, id ASC"
	}
	return r.queryMenus(ctx, tx, query, f.Args()...)
}

func (r *MenuRepository) Count(ctx context.Context, params *menu.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.filter(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM menu`+f.Where(), f.Args()...).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "count menus")
	}
	return count, nil
}

func (r *MenuRepository) ListUsed(ctx context.Context) ([]*menu.Menu, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryMenus(ctx, tx, usedMenusQuery, appID)
}

func (r *MenuRepository) GetByMenuID(ctx context.Context, menuID string) (*menu.Menu, error) {
	menus, err := r.List(ctx, &menu.FindParams{MenuID: menuID})
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return nil, menu.ErrNotFound
	}
	return menus[0], nil
}

func (r *MenuRepository) Exists(ctx context.Context, menuID string) (bool, error) {
	count, err := r.Count(ctx, &menu.FindParams{MenuID: menuID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MenuRepository) DescendantsOf(ctx context.Context, menuID string) ([]string, error) {
	return r.queryKeys(ctx, descendantsQuery, menuID)
}

func (r *MenuRepository) AncestorsOf(ctx context.Context, menuID string) ([]string, error) {
	return r.queryKeys(ctx, ancestorsQuery, menuID)
}

func (r *MenuRepository) Create(ctx context.Context, data *menu.Menu) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMenu(data)
	if err := tx.QueryRow(ctx, insertMenuQuery,
		row.AppID,
		row.MenuID,
		row.MenuName,
		row.MenuType,
		row.MenuActionType,
		row.MenuIcon,
		row.MenuRoute,
		row.RouteParam,
		row.Weight,
		row.ParentID,
		row.Authority,
		row.MenuStatus,
		row.Cts,
		row.Uts,
	).Scan(&data.ID); err != nil {
		return gerrors.Wrap(err, "insert menu")
	}
	return nil
}

func (r *MenuRepository) Update(ctx context.Context, data *menu.Menu) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMenu(data)
	tag, err := tx.Exec(ctx, updateMenuQuery,
		row.AppID,
		row.MenuID,
		row.MenuName,
		row.MenuType,
		row.MenuActionType,
		row.MenuIcon,
		row.MenuRoute,
		row.RouteParam,
		row.Weight,
		row.ParentID,
		row.Authority,
		row.MenuStatus,
		row.Uts,
	)
	if err != nil {
		return gerrors.Wrap(err, "update menu")
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func (r *MenuRepository) queryMenus(ctx context.Context, tx repo.Tx, query string, args ...any) ([]*menu.Menu, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "query menus")
	}
	defer rows.Close()

	result := make([]*menu.Menu, 0)
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(
			&m.ID,
			&m.AppID,
			&m.MenuID,
			&m.MenuName,
			&m.MenuType,
			&m.MenuActionType,
			&m.MenuIcon,
			&m.MenuRoute,
			&m.RouteParam,
			&m.Weight,
			&m.ParentID,
			&m.Authority,
			&m.MenuStatus,
			&m.Cts,
			&m.Uts,
		); err != nil {
			return nil, gerrors.Wrap(err, "scan menu")
		}
		result = append(result, toDomainMenu(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MenuRepository) queryKeys(ctx context.Context, query, menuID string) ([]string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, err
	}
	return collectStrings(ctx, tx, query, appID, menuID)
}

func collectStrings(ctx context.Context, tx repo.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "query menu keys")
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
