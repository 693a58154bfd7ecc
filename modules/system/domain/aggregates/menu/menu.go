package menu

import (
	"time"

	"github.com/laurel-hq/laurel/pkg/enums"
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusDeleted Status = "deleted"
)

type Type string

const (
	TypeMenu   Type = "menu"
	TypeButton Type = "btn"
)

type ActionType string

const (
	ActionRoute  ActionType = "route"
	ActionLink   ActionType = "link"
	ActionIframe ActionType = "iframe"
)

var (
	Statuses = enums.NewCatalog(
		enums.Option[Status]{Value: StatusOpen, Label: "Open"},
		enums.Option[Status]{Value: StatusClosed, Label: "Closed"},
		enums.Option[Status]{Value: StatusDeleted, Label: "Deleted"},
	)
	Types = enums.NewCatalog(
		enums.Option[Type]{Value: TypeMenu, Label: "Menu"},
		enums.Option[Type]{Value: TypeButton, Label: "Button"},
	)
	ActionTypes = enums.NewCatalog(
		enums.Option[ActionType]{Value: ActionRoute, Label: "Route"},
		enums.Option[ActionType]{Value: ActionLink, Label: "Link"},
		enums.Option[ActionType]{Value: ActionIframe, Label: "Iframe"},
	)
)

// Menu is one navigation entry of an application. A root menu is its own parent.
type Menu struct {
	ID         int64
	AppID      string
	MenuID     string
	MenuName   string
	MenuType   Type
	ActionType ActionType
	MenuIcon   string
	MenuRoute  string
	RouteParam string
	Weight     int32
	ParentID   string
	Authority  string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (m *Menu) Key() string         { return m.MenuID }
func (m *Menu) ParentKey() string   { return m.ParentID }
func (m *Menu) DisplayName() string { return m.MenuName }

func (m *Menu) IsRoot() bool {
	return m.ParentID == m.MenuID
}

func (m *Menu) IsOpen() bool {
	return m.Status == StatusOpen
}

func (m *Menu) IsDeleted() bool {
	return m.Status == StatusDeleted
}
