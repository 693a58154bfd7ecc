package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/eventbus"
	"github.com/laurel-hq/laurel/pkg/hierarchy"
	"github.com/laurel-hq/laurel/pkg/repo"
	"github.com/laurel-hq/laurel/pkg/testutils/pgxstub"
)

func openMenu(id, parent, name string, weight int32) *menu.Menu {
	return &menu.Menu{
		AppID:      "portal",
		MenuID:     id,
		MenuName:   name,
		MenuType:   menu.TypeMenu,
		ActionType: menu.ActionRoute,
		Weight:     weight,
		ParentID:   parent,
		Status:     menu.StatusOpen,
	}
}

// root -> a -> b, plus orphan x under a missing parent.
func seededMenus() []*menu.Menu {
	return []*menu.Menu{
		openMenu("root", "root", "Root", 1),
		openMenu("a", "root", "A", 1),
		openMenu("b", "a", "B", 1),
		openMenu("x", "missing", "X", 1),
	}
}

type menuFixture struct {
	svc     *MenuService
	repo    *fakeMenuRepo
	created []*menu.CreatedEvent
	updated []*menu.UpdatedEvent
}

func newMenuFixture(t *testing.T, menus ...*menu.Menu) *menuFixture {
	t.Helper()
	f := &menuFixture{repo: newFakeMenuRepo(menus...)}
	bus := eventbus.NewEventPublisher(logrus.New())
	bus.Subscribe(func(e *menu.CreatedEvent) { f.created = append(f.created, e) })
	bus.Subscribe(func(e *menu.UpdatedEvent) { f.updated = append(f.updated, e) })
	f.svc = NewMenuService(f.repo, NewMemoryMenuCache(time.Minute), bus)
	f.svc.newID = func() string { return "01HNEWMENU" }
	return f
}

func TestMenuService_Create_DefaultsToOpenRoot(t *testing.T) {
	f := newMenuFixture(t)

	created, err := f.svc.Create(scopedCtx("portal"), &CreateMenuInput{
		MenuName:   " Dashboard ",
		MenuType:   "menu",
		ActionType: "route",
		MenuRoute:  "/dashboard",
	})
	require.NoError(t, err)
	require.Equal(t, "01HNEWMENU", created.MenuID)
	require.Equal(t, created.MenuID, created.ParentID)
	require.Equal(t, "Dashboard", created.MenuName)
	require.Equal(t, menu.StatusOpen, created.Status)
	require.Equal(t, "portal", created.AppID)
	require.NotZero(t, created.ID)

	require.Len(t, f.created, 1)
	require.Equal(t, "portal", f.created[0].AppID)
	require.Equal(t, created.MenuID, f.created[0].Result.MenuID)
}

func TestMenuService_Create_UnderExistingParent(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)

	created, err := f.svc.Create(scopedCtx("portal"), &CreateMenuInput{
		MenuName:   "Reports",
		MenuType:   "btn",
		ActionType: "link",
		ParentID:   "a",
		Status:     "closed",
	})
	require.NoError(t, err)
	require.Equal(t, "a", created.ParentID)
	require.Equal(t, menu.StatusClosed, created.Status)
	require.Equal(t, menu.TypeButton, created.MenuType)
}

func TestMenuService_Create_Rejections(t *testing.T) {
	valid := func() *CreateMenuInput {
		return &CreateMenuInput{MenuName: "n", MenuType: "menu", ActionType: "route"}
	}
	cases := []struct {
		name   string
		ctx    context.Context
		mutate func(in *CreateMenuInput)
		status int
		code   string
	}{
		{"missing name", scopedCtx("portal"), func(in *CreateMenuInput) { in.MenuName = "" }, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown type", scopedCtx("portal"), func(in *CreateMenuInput) { in.MenuType = "tab" }, http.StatusUnprocessableEntity, "INVALID_OPTION"},
		{"unknown action", scopedCtx("portal"), func(in *CreateMenuInput) { in.ActionType = "popup" }, http.StatusUnprocessableEntity, "INVALID_OPTION"},
		{"unknown status", scopedCtx("portal"), func(in *CreateMenuInput) { in.Status = "archived" }, http.StatusUnprocessableEntity, "INVALID_OPTION"},
		{"missing parent", scopedCtx("portal"), func(in *CreateMenuInput) { in.ParentID = "ghost" }, http.StatusUnprocessableEntity, "MENU_PARENT_NOT_FOUND"},
		{"no app scope", scopedCtx(""), func(*CreateMenuInput) {}, http.StatusBadRequest, "APP_ID_REQUIRED"},
		{"conflicting app", scopedCtx("portal"), func(in *CreateMenuInput) { in.AppID = "admin" }, http.StatusBadRequest, "APP_ID_MISMATCH"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMenuFixture(t, seededMenus()...)
			in := valid()
			tc.mutate(in)
			_, err := f.svc.Create(tc.ctx, in)
			requireServiceError(t, err, tc.status, tc.code)
			require.Empty(t, f.created)
		})
	}
}

func TestMenuService_Create_AppFromBody(t *testing.T) {
	f := newMenuFixture(t)
	created, err := f.svc.Create(scopedCtx(""), &CreateMenuInput{
		AppID: "admin", MenuName: "n", MenuType: "menu", ActionType: "iframe",
	})
	require.NoError(t, err)
	require.Equal(t, "admin", created.AppID)
}

func TestMenuService_Update_Errors(t *testing.T) {
	deleted := openMenu("gone", "gone", "Gone", 1)
	deleted.Status = menu.StatusDeleted
	ptr := func(s string) *string { return &s }

	cases := []struct {
		name   string
		in     *UpdateMenuInput
		status int
		code   string
	}{
		{"empty id", &UpdateMenuInput{MenuID: "  "}, http.StatusBadRequest, "MENU_ID_REQUIRED"},
		{"missing", &UpdateMenuInput{MenuID: "nope"}, http.StatusNotFound, "MENU_NOT_FOUND"},
		{"deleted", &UpdateMenuInput{MenuID: "gone"}, http.StatusConflict, "MENU_DELETED"},
		{"cycle", &UpdateMenuInput{MenuID: "a", ParentID: ptr("b")}, http.StatusUnprocessableEntity, "MENU_PARENT_CYCLE"},
		{"unknown parent", &UpdateMenuInput{MenuID: "b", ParentID: ptr("ghost")}, http.StatusUnprocessableEntity, "MENU_PARENT_NOT_FOUND"},
		{"empty name", &UpdateMenuInput{MenuID: "b", MenuName: ptr(" ")}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad status", &UpdateMenuInput{MenuID: "b", Status: ptr("paused")}, http.StatusUnprocessableEntity, "INVALID_OPTION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMenuFixture(t, append(seededMenus(), deleted)...)
			_, err := f.svc.Update(scopedCtx("portal"), tc.in)
			requireServiceError(t, err, tc.status, tc.code)
			require.Empty(t, f.updated)
		})
	}
}

func TestMenuService_Update_CycleWrapsErrCycle(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	parent := "b"
	_, err := f.svc.Update(scopedCtx("portal"), &UpdateMenuInput{MenuID: "root", ParentID: &parent})
	require.ErrorIs(t, err, hierarchy.ErrCycle)
}

func TestMenuService_Update_ReparentAndPatch(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	parent, name := "root", "Bee"
	var weight int32 = 7

	updated, err := f.svc.Update(scopedCtx("portal"), &UpdateMenuInput{
		MenuID:   "b",
		ParentID: &parent,
		MenuName: &name,
		Weight:   &weight,
	})
	require.NoError(t, err)
	require.Equal(t, "root", updated.ParentID)
	require.Equal(t, "Bee", updated.MenuName)
	require.Equal(t, int32(7), updated.Weight)

	stored, err := f.repo.GetByMenuID(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, "root", stored.ParentID)

	require.Len(t, f.updated, 1)
	require.True(t, f.updated[0].Reparented())
	require.Equal(t, "a", f.updated[0].Data.ParentID)
}

func TestMenuService_Update_SelfParentMakesRoot(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	self := "b"
	updated, err := f.svc.Update(scopedCtx("portal"), &UpdateMenuInput{MenuID: "b", ParentID: &self})
	require.NoError(t, err)
	require.True(t, updated.IsRoot())
}

func TestMenuService_UsedTree_CachesAndDropsOrphans(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	ctx := scopedCtx("portal")

	forest, err := f.svc.UsedTree(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Equal(t, "root", forest[0].Node.MenuID)
	require.Equal(t, 3, forest[0].Size())
	require.Equal(t, "Root", forest[0].Children[0].ParentName)

	_, err = f.svc.UsedTree(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.listUsedCalls)

	require.NoError(t, f.svc.InvalidateUsedTree(ctx, "portal", "test"))
	_, err = f.svc.UsedTree(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, f.repo.listUsedCalls)
}

func TestMenuService_UsedTree_RequiresApp(t *testing.T) {
	f := newMenuFixture(t)
	_, err := f.svc.UsedTree(scopedCtx(""))
	requireServiceError(t, err, http.StatusBadRequest, "APP_ID_REQUIRED")
}

func TestMenuService_Tree_IncludesEveryStatus(t *testing.T) {
	menus := seededMenus()
	menus[2].Status = menu.StatusClosed
	f := newMenuFixture(t, menus...)

	forest, err := f.svc.Tree(scopedCtx("portal"), nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Equal(t, 3, forest[0].Size())
}

func TestMenuService_Page(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)

	page, err := f.svc.Page(scopedCtx("portal"), nil, repo.PageRequest{Page: 2, Size: 3})
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Total)
	require.Equal(t, uint32(2), page.Pages)
	require.Len(t, page.Data, 1)
	require.Equal(t, "x", page.Data[0].MenuID)
}

func TestMenuService_GetByMenuID(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)

	m, err := f.svc.GetByMenuID(scopedCtx("portal"), "a")
	require.NoError(t, err)
	require.Equal(t, "A", m.MenuName)

	_, err = f.svc.GetByMenuID(scopedCtx("portal"), "zzz")
	requireServiceError(t, err, http.StatusNotFound, "MENU_NOT_FOUND")

	_, err = f.svc.GetByMenuID(scopedCtx("portal"), "")
	requireServiceError(t, err, http.StatusBadRequest, "MENU_ID_REQUIRED")
}

func TestMenuService_DescendantsAndAncestors(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	ctx := scopedCtx("portal")

	down, err := f.svc.Descendants(ctx, "root")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, down)

	up, err := f.svc.Ancestors(ctx, "b")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "root"}, up)
}

func TestMenuService_NegativeWeightSortsFirst(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	ctx := scopedCtx("portal")

	created, err := f.svc.Create(ctx, &CreateMenuInput{
		MenuName:   "Pinned",
		MenuType:   "menu",
		ActionType: "route",
		Weight:     -5,
	})
	require.NoError(t, err)
	require.Equal(t, int32(-5), created.Weight)

	forest, err := f.svc.Tree(ctx, nil)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	require.Equal(t, created.MenuID, forest[0].Node.MenuID)
	require.Equal(t, "root", forest[1].Node.MenuID)

	weight := int32(-1)
	updated, err := f.svc.Update(ctx, &UpdateMenuInput{MenuID: "root", Weight: &weight})
	require.NoError(t, err)
	require.Equal(t, int32(-1), updated.Weight)
}

func TestMenuService_Update_RunsSerializable(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	pool := &pgxstub.Beginner{}
	ctx := composables.WithAppID(composables.WithTxBeginner(context.Background(), pool), "portal")

	parent := "root"
	_, err := f.svc.Update(ctx, &UpdateMenuInput{MenuID: "b", ParentID: &parent})
	require.NoError(t, err)

	require.Len(t, pool.Started, 1)
	require.Equal(t, pgx.Serializable, pool.Started[0].Opts.IsoLevel)
	require.True(t, pool.Started[0].Committed)
}

func TestMenuService_Page_ReadsOneSnapshot(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	pool := &pgxstub.Beginner{}
	ctx := composables.WithAppID(composables.WithTxBeginner(context.Background(), pool), "portal")

	page, err := f.svc.Page(ctx, nil, repo.PageRequest{Size: 2})
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Total)
	require.Len(t, page.Data, 2)

	require.Len(t, pool.Started, 1)
	require.Equal(t, composables.ReadSnapshot, pool.Started[0].Opts)
	require.True(t, pool.Started[0].Committed)
}

func TestMenuService_UsedTree_InvalidatedWhileLoadingIsNotCached(t *testing.T) {
	f := newMenuFixture(t, seededMenus()...)
	ctx := scopedCtx("portal")

	f.repo.afterListUsed = func() {
		f.repo.afterListUsed = nil
		f.repo.menus[1].Status = menu.StatusClosed
		require.NoError(t, f.svc.InvalidateUsedTree(ctx, "portal", "menu_updated"))
	}

	stale, err := f.svc.UsedTree(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, 3, stale[0].Size())

	fresh, err := f.svc.UsedTree(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, f.repo.listUsedCalls)
	require.Len(t, fresh, 1)
	require.Equal(t, 1, fresh[0].Size())
}

func TestNewULID_IsMonotonic(t *testing.T) {
	prev := newULID()
	for i := 0; i < 1000; i++ {
		next := newULID()
		require.Less(t, prev, next)
		prev = next
	}
}
