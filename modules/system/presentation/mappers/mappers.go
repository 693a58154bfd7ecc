package mappers

import (
	"time"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/modules/system/presentation/viewmodels"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/enums"
	"github.com/laurel-hq/laurel/pkg/hierarchy"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateTimeLayout)
}

// Options converts a catalog to the string-keyed form sent to clients.
func Options[K ~string](c enums.Catalog[K]) []viewmodels.Option {
	src := c.Options()
	out := make([]viewmodels.Option, 0, len(src))
	for _, o := range src {
		out = append(out, viewmodels.Option{Value: string(o.Value), Label: o.Label})
	}
	return out
}

func MenuToViewModel(m *menu.Menu) *viewmodels.Menu {
	return &viewmodels.Menu{
		ID:                 m.ID,
		AppID:              m.AppID,
		MenuID:             m.MenuID,
		MenuName:           m.MenuName,
		MenuType:           string(m.MenuType),
		MenuTypeName:       menu.Types.Label(m.MenuType),
		MenuActionType:     string(m.ActionType),
		MenuActionTypeName: menu.ActionTypes.Label(m.ActionType),
		MenuIcon:           m.MenuIcon,
		MenuRoute:          m.MenuRoute,
		RouteParam:         m.RouteParam,
		Weight:             m.Weight,
		ParentID:           m.ParentID,
		Authority:          m.Authority,
		MenuStatus:         string(m.Status),
		MenuStatusName:     menu.Statuses.Label(m.Status),
		Cts:                formatTime(m.CreatedAt),
		Uts:                formatTime(m.UpdatedAt),
		Children:           []*viewmodels.Menu{},
	}
}

func MenusToViewModels(menus []*menu.Menu) []*viewmodels.Menu {
	out := make([]*viewmodels.Menu, 0, len(menus))
	for _, m := range menus {
		out = append(out, MenuToViewModel(m))
	}
	return out
}

func MenuToIndexedViewModel(index uint32, m *menu.Menu) *viewmodels.Menu {
	vm := MenuToViewModel(m)
	vm.Index = index
	return vm
}

// MenuForestToViewModels converts assembled trees without recursing, so depth is
// bounded only by memory.
func MenuForestToViewModels(forest []*hierarchy.Tree[*menu.Menu]) []*viewmodels.Menu {
	type pending struct {
		src *hierarchy.Tree[*menu.Menu]
		dst *viewmodels.Menu
	}
	out := make([]*viewmodels.Menu, 0, len(forest))
	stack := make([]pending, 0, len(forest))
	for _, t := range forest {
		vm := menuTreeNode(t)
		out = append(out, vm)
		stack = append(stack, pending{src: t, dst: vm})
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range cur.src.Children {
			vm := menuTreeNode(child)
			cur.dst.Children = append(cur.dst.Children, vm)
			stack = append(stack, pending{src: child, dst: vm})
		}
	}
	return out
}

func menuTreeNode(t *hierarchy.Tree[*menu.Menu]) *viewmodels.Menu {
	vm := MenuToViewModel(t.Node)
	vm.ParentName = t.ParentName
	return vm
}

func DictToViewModel(index uint32, d *dict.Dict) *viewmodels.Dict {
	return &viewmodels.Dict{
		Index:        index,
		ID:           d.ID,
		DictID:       d.DictID,
		DictName:     d.DictName,
		DictMark:     d.DictMark,
		DictType:     string(d.DictType),
		DictTypeName: dict.Types.Label(d.DictType),
		Weight:       d.Weight,
		Cts:          formatTime(d.CreatedAt),
		Uts:          formatTime(d.UpdatedAt),
	}
}

func DictValueToViewModel(index uint32, v *dict.Value) *viewmodels.DictValue {
	return &viewmodels.DictValue{
		Index:        index,
		ID:           v.ID,
		DictID:       v.DictID,
		ValueID:      v.ValueID,
		ValueName:    v.ValueName,
		ValueMark:    v.ValueMark,
		DictType:     string(v.DictType),
		DictTypeName: dict.Types.Label(v.DictType),
		Weight:       v.Weight,
		Cts:          formatTime(v.CreatedAt),
		Uts:          formatTime(v.UpdatedAt),
	}
}

func MicroServiceToViewModel(index uint32, s *microservice.Service) *viewmodels.MicroService {
	return &viewmodels.MicroService{
		Index:             index,
		ID:                s.ID,
		AppID:             s.AppID,
		ServiceID:         s.ServiceID,
		ServiceName:       s.ServiceName,
		ServiceEntry:      s.ServiceEntry,
		MountPoint:        s.MountPoint,
		RoutePattern:      s.RoutePattern,
		ServiceStatus:     string(s.Status),
		ServiceStatusName: microservice.Statuses.Label(s.Status),
		Cts:               formatTime(s.CreatedAt),
		Uts:               formatTime(s.UpdatedAt),
	}
}
