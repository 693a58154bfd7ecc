package viewmodels

import "github.com/laurel-hq/laurel/pkg/enums"

type Option = enums.Option[string]

// Menu is both a list row and a tree node; Children is empty outside trees.
type Menu struct {
	Index              uint32  `json:"index"`
	ID                 int64   `json:"id"`
	AppID              string  `json:"app_id"`
	MenuID             string  `json:"menu_id"`
	MenuName           string  `json:"menu_name"`
	MenuType           string  `json:"menu_type"`
	MenuTypeName       string  `json:"menu_type_name"`
	MenuActionType     string  `json:"menu_action_type"`
	MenuActionTypeName string  `json:"menu_action_type_name"`
	MenuIcon           string  `json:"menu_icon"`
	MenuRoute          string  `json:"menu_route"`
	RouteParam         string  `json:"route_param"`
	Weight             int32   `json:"weight"`
	ParentID           string  `json:"parent_id"`
	ParentName         string  `json:"parent_name,omitempty"`
	Authority          string  `json:"authority"`
	MenuStatus         string  `json:"menu_status"`
	MenuStatusName     string  `json:"menu_status_name"`
	Cts                string  `json:"cts"`
	Uts                string  `json:"uts"`
	Children           []*Menu `json:"children"`
}

type Dict struct {
	Index        uint32 `json:"index"`
	ID           int64  `json:"id"`
	DictID       string `json:"dict_id"`
	DictName     string `json:"dict_name"`
	DictMark     string `json:"dict_mark"`
	DictType     string `json:"dict_type"`
	DictTypeName string `json:"dict_type_name"`
	Weight       int32  `json:"weight"`
	Cts          string `json:"cts"`
	Uts          string `json:"uts"`
}

type DictValue struct {
	Index        uint32 `json:"index"`
	ID           int64  `json:"id"`
	DictID       string `json:"dict_id"`
	ValueID      string `json:"value_id"`
	ValueName    string `json:"value_name"`
	ValueMark    string `json:"value_mark"`
	DictType     string `json:"dict_type"`
	DictTypeName string `json:"dict_type_name"`
	Weight       int32  `json:"weight"`
	Cts          string `json:"cts"`
	Uts          string `json:"uts"`
}

type MicroService struct {
	Index             uint32 `json:"index"`
	ID                int64  `json:"id"`
	AppID             string `json:"app_id"`
	ServiceID         string `json:"service_id"`
	ServiceName       string `json:"service_name"`
	ServiceEntry      string `json:"service_entry"`
	MountPoint        string `json:"mount_point"`
	RoutePattern      string `json:"route_pattern"`
	ServiceStatus     string `json:"service_status"`
	ServiceStatusName string `json:"service_status_name"`
	Cts               string `json:"cts"`
	Uts               string `json:"uts"`
}
