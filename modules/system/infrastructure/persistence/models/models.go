package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Menu struct {
	ID             int64
	AppID          string
	MenuID         string
	MenuName       string
	MenuType       string
	MenuActionType string
	MenuIcon       pgtype.Text
	MenuRoute      pgtype.Text
	RouteParam     pgtype.Text
	Weight         int32
	ParentID       string
	Authority      pgtype.Text
	MenuStatus     string
	Cts            time.Time
	Uts            time.Time
}

type Dict struct {
	ID       int64
	DictID   string
	DictName string
	DictMark pgtype.Text
	Weight   int32
	DictType string
	Cts      time.Time
	Uts      time.Time
}

type DictValue struct {
	ID        int64
	DictID    string
	ValueID   string
	ValueName string
	ValueMark pgtype.Text
	Weight    int32
	DictType  string
	Cts       time.Time
	Uts       time.Time
}

type FeMicroService struct {
	ID            int64
	AppID         string
	ServiceID     string
	ServiceName   string
	ServiceEntry  string
	MountPoint    string
	RoutePattern  string
	ServiceStatus string
	Cts           time.Time
	Uts           time.Time
}
