package persistence

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence/models"
)

// optionalText stores empty strings as NULL.
func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDBMenu(m *menu.Menu) *models.Menu {
	return &models.Menu{
		ID:             m.ID,
		AppID:          m.AppID,
		MenuID:         m.MenuID,
		MenuName:       m.MenuName,
		MenuType:       string(m.MenuType),
		MenuActionType: string(m.ActionType),
		MenuIcon:       optionalText(m.MenuIcon),
		MenuRoute:      optionalText(m.MenuRoute),
		RouteParam:     optionalText(m.RouteParam),
		Weight:         m.Weight,
		ParentID:       m.ParentID,
		Authority:      optionalText(m.Authority),
		MenuStatus:     string(m.Status),
		Cts:            m.CreatedAt,
		Uts:            m.UpdatedAt,
	}
}

func toDomainMenu(row *models.Menu) *menu.Menu {
	return &menu.Menu{
		ID:         row.ID,
		AppID:      row.AppID,
		MenuID:     row.MenuID,
		MenuName:   row.MenuName,
		MenuType:   menu.Type(row.MenuType),
		ActionType: menu.ActionType(row.MenuActionType),
		MenuIcon:   row.MenuIcon.String,
		MenuRoute:  row.MenuRoute.String,
		RouteParam: row.RouteParam.String,
		Weight:     row.Weight,
		ParentID:   row.ParentID,
		Authority:  row.Authority.String,
		Status:     menu.Status(row.MenuStatus),
		CreatedAt:  row.Cts,
		UpdatedAt:  row.Uts,
	}
}

func toDBDict(d *dict.Dict) *models.Dict {
	return &models.Dict{
		ID:       d.ID,
		DictID:   d.DictID,
		DictName: d.DictName,
		DictMark: optionalText(d.DictMark),
		Weight:   d.Weight,
		DictType: string(d.DictType),
		Cts:      d.CreatedAt,
		Uts:      d.UpdatedAt,
	}
}

func toDomainDict(row *models.Dict) *dict.Dict {
	return &dict.Dict{
		ID:        row.ID,
		DictID:    row.DictID,
		DictName:  row.DictName,
		DictMark:  row.DictMark.String,
		Weight:    row.Weight,
		DictType:  dict.Type(row.DictType),
		CreatedAt: row.Cts,
		UpdatedAt: row.Uts,
	}
}

func toDBDictValue(v *dict.Value) *models.DictValue {
	return &models.DictValue{
		ID:        v.ID,
		DictID:    v.DictID,
		ValueID:   v.ValueID,
		ValueName: v.ValueName,
		ValueMark: optionalText(v.ValueMark),
		Weight:    v.Weight,
		DictType:  string(v.DictType),
		Cts:       v.CreatedAt,
		Uts:       v.UpdatedAt,
	}
}

func toDomainDictValue(row *models.DictValue) *dict.Value {
	return &dict.Value{
		ID:        row.ID,
		DictID:    row.DictID,
		ValueID:   row.ValueID,
		ValueName: row.ValueName,
		ValueMark: row.ValueMark.String,
		Weight:    row.Weight,
		DictType:  dict.Type(row.DictType),
		CreatedAt: row.Cts,
		UpdatedAt: row.Uts,
	}
}

func toDBMicroService(s *microservice.Service) *models.FeMicroService {
	return &models.FeMicroService{
		ID:            s.ID,
		AppID:         s.AppID,
		ServiceID:     s.ServiceID,
		ServiceName:   s.ServiceName,
		ServiceEntry:  s.ServiceEntry,
		MountPoint:    s.MountPoint,
		RoutePattern:  s.RoutePattern,
		ServiceStatus: string(s.Status),
		Cts:           s.CreatedAt,
		Uts:           s.UpdatedAt,
	}
}

func toDomainMicroService(row *models.FeMicroService) *microservice.Service {
	return &microservice.Service{
		ID:           row.ID,
		AppID:        row.AppID,
		ServiceID:    row.ServiceID,
		ServiceName:  row.ServiceName,
		ServiceEntry: row.ServiceEntry,
		MountPoint:   row.MountPoint,
		RoutePattern: row.RoutePattern,
		Status:       microservice.Status(row.ServiceStatus),
		CreatedAt:    row.Cts,
		UpdatedAt:    row.Uts,
	}
}
