package services

import (
	"cmp"
	"context"
	"slices"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/hierarchy"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

// fakeTx marks ctx as already transactional so InTx runs the callback in place.
type fakeTx struct{ pgx.Tx }

func scopedCtx(appID string) context.Context {
	ctx := composables.WithTx(context.Background(), fakeTx{})
	if appID == "" {
		return ctx
	}
	return composables.WithAppID(ctx, appID)
}

func requireServiceError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var svcErr *serrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, status, svcErr.Status, svcErr.Error())
	if code != "" {
		require.Equal(t, code, svcErr.Code)
	}
}

type fakeMenuRepo struct {
	menus         []*menu.Menu
	listUsedCalls int
	nextID        int64
	// afterListUsed runs once the used rows are read, standing in for a write that
	// commits while the read is still in flight.
	afterListUsed func()
}

// sortMenus mirrors the repositories' ORDER BY weight ASC, id ASC.
func sortMenus(menus []*menu.Menu) {
	slices.SortStableFunc(menus, func(a, b *menu.Menu) int {
		if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func newFakeMenuRepo(menus ...*menu.Menu) *fakeMenuRepo {
	return &fakeMenuRepo{menus: menus, nextID: int64(len(menus))}
}

func (r *fakeMenuRepo) find(menuID string) int {
	for i, m := range r.menus {
		if m.MenuID == menuID {
			return i
		}
	}
	return -1
}

func (r *fakeMenuRepo) List(_ context.Context, params *menu.FindParams) ([]*menu.Menu, error) {
	out := []*menu.Menu{}
	for _, m := range r.menus {
		if params != nil && params.MenuID != "" && m.MenuID != params.MenuID {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sortMenus(out)
	if params != nil && params.Limit > 0 {
		start := min(params.Offset, len(out))
		end := min(start+params.Limit, len(out))
		out = out[start:end]
	}
	return out, nil
}

func (r *fakeMenuRepo) Count(ctx context.Context, params *menu.FindParams) (int64, error) {
	p := menu.FindParams{}
	if params != nil {
		p = *params
		p.Limit, p.Offset = 0, 0
	}
	all, _ := r.List(ctx, &p)
	return int64(len(all)), nil
}

func (r *fakeMenuRepo) ListUsed(ctx context.Context) ([]*menu.Menu, error) {
	r.listUsedCalls++
	out := []*menu.Menu{}
	for _, m := range r.menus {
		if m.IsOpen() {
			c := *m
			out = append(out, &c)
		}
	}
	sortMenus(out)
	if r.afterListUsed != nil {
		r.afterListUsed()
	}
	return out, nil
}

func (r *fakeMenuRepo) GetByMenuID(_ context.Context, menuID string) (*menu.Menu, error) {
	i := r.find(menuID)
	if i < 0 {
		return nil, menu.ErrNotFound
	}
	c := *r.menus[i]
	return &c, nil
}

func (r *fakeMenuRepo) Exists(_ context.Context, menuID string) (bool, error) {
	return r.find(menuID) >= 0, nil
}

func (r *fakeMenuRepo) index() *hierarchy.Index[*menu.Menu] {
	return hierarchy.NewIndex(r.menus, (*menu.Menu).IsOpen)
}

func (r *fakeMenuRepo) DescendantsOf(ctx context.Context, menuID string) ([]string, error) {
	return r.index().DescendantsOf(ctx, menuID)
}

func (r *fakeMenuRepo) AncestorsOf(ctx context.Context, menuID string) ([]string, error) {
	return r.index().AncestorsOf(ctx, menuID)
}

func (r *fakeMenuRepo) Create(_ context.Context, m *menu.Menu) error {
	r.nextID++
	m.ID = r.nextID
	c := *m
	r.menus = append(r.menus, &c)
	return nil
}

func (r *fakeMenuRepo) Update(_ context.Context, m *menu.Menu) error {
	i := r.find(m.MenuID)
	if i < 0 {
		return menu.ErrNotFound
	}
	c := *m
	r.menus[i] = &c
	return nil
}

type fakeDictRepo struct {
	dicts  []*dict.Dict
	nextID int64
}

func (r *fakeDictRepo) List(_ context.Context, params *dict.FindParams) ([]*dict.Dict, error) {
	out := []*dict.Dict{}
	for _, d := range r.dicts {
		if params != nil && params.DictID != "" && d.DictID != params.DictID {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeDictRepo) Count(ctx context.Context, params *dict.FindParams) (int64, error) {
	all, _ := r.List(ctx, params)
	return int64(len(all)), nil
}

func (r *fakeDictRepo) GetByID(_ context.Context, id int64) (*dict.Dict, error) {
	for _, d := range r.dicts {
		if d.ID == id {
			c := *d
			return &c, nil
		}
	}
	return nil, dict.ErrNotFound
}

func (r *fakeDictRepo) GetByDictID(_ context.Context, dictID string) (*dict.Dict, error) {
	for _, d := range r.dicts {
		if d.DictID == dictID {
			c := *d
			return &c, nil
		}
	}
	return nil, dict.ErrNotFound
}

func (r *fakeDictRepo) Create(_ context.Context, d *dict.Dict) error {
	r.nextID++
	d.ID = r.nextID
	c := *d
	r.dicts = append(r.dicts, &c)
	return nil
}

func (r *fakeDictRepo) Update(_ context.Context, d *dict.Dict) error {
	for i, existing := range r.dicts {
		if existing.ID == d.ID {
			c := *d
			r.dicts[i] = &c
			return nil
		}
	}
	return dict.ErrNotFound
}

func (r *fakeDictRepo) Delete(_ context.Context, id int64) error {
	for i, d := range r.dicts {
		if d.ID == id {
			r.dicts = append(r.dicts[:i], r.dicts[i+1:]...)
			return nil
		}
	}
	return dict.ErrNotFound
}

type fakeValueRepo struct {
	values []*dict.Value
	nextID int64
}

func (r *fakeValueRepo) List(_ context.Context, params *dict.ValueFindParams) ([]*dict.Value, error) {
	out := []*dict.Value{}
	for _, v := range r.values {
		if v.DictID != params.DictID {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeValueRepo) Count(ctx context.Context, params *dict.ValueFindParams) (int64, error) {
	all, _ := r.List(ctx, params)
	return int64(len(all)), nil
}

func (r *fakeValueRepo) GetByID(_ context.Context, id int64) (*dict.Value, error) {
	for _, v := range r.values {
		if v.ID == id {
			c := *v
			return &c, nil
		}
	}
	return nil, dict.ErrValueNotFound
}

func (r *fakeValueRepo) GetByValueID(_ context.Context, dictID, valueID string) (*dict.Value, error) {
	for _, v := range r.values {
		if v.DictID == dictID && v.ValueID == valueID {
			c := *v
			return &c, nil
		}
	}
	return nil, dict.ErrValueNotFound
}

func (r *fakeValueRepo) Create(_ context.Context, v *dict.Value) error {
	r.nextID++
	v.ID = r.nextID
	c := *v
	r.values = append(r.values, &c)
	return nil
}

func (r *fakeValueRepo) Update(_ context.Context, v *dict.Value) error {
	for i, existing := range r.values {
		if existing.ID == v.ID {
			c := *v
			r.values[i] = &c
			return nil
		}
	}
	return dict.ErrValueNotFound
}

func (r *fakeValueRepo) Delete(_ context.Context, id int64) error {
	for i, v := range r.values {
		if v.ID == id {
			r.values = append(r.values[:i], r.values[i+1:]...)
			return nil
		}
	}
	return dict.ErrValueNotFound
}

type fakeMicroServiceRepo struct {
	services []*microservice.Service
	lastFind *microservice.FindParams
}

func (r *fakeMicroServiceRepo) List(_ context.Context, params *microservice.FindParams) ([]*microservice.Service, error) {
	r.lastFind = params
	out := []*microservice.Service{}
	for _, s := range r.services {
		if params != nil && params.Status != "" && string(s.Status) != params.Status {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeMicroServiceRepo) Count(ctx context.Context, params *microservice.FindParams) (int64, error) {
	all, _ := r.List(ctx, params)
	return int64(len(all)), nil
}

func (r *fakeMicroServiceRepo) GetByServiceID(_ context.Context, serviceID string) (*microservice.Service, error) {
	for _, s := range r.services {
		if s.ServiceID == serviceID {
			c := *s
			return &c, nil
		}
	}
	return nil, microservice.ErrNotFound
}

func (r *fakeMicroServiceRepo) Create(_ context.Context, s *microservice.Service) error {
	s.ID = int64(len(r.services) + 1)
	c := *s
	r.services = append(r.services, &c)
	return nil
}

func (r *fakeMicroServiceRepo) Update(_ context.Context, s *microservice.Service) error {
	for i, existing := range r.services {
		if existing.ServiceID == s.ServiceID {
			c := *s
			r.services[i] = &c
			return nil
		}
	}
	return microservice.ErrNotFound
}
