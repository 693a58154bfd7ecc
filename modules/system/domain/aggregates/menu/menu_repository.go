package menu

import (
	"context"
)

type FindParams struct {
	MenuID     string
	MenuIDs    []string
	MenuName   string
	MenuType   string
	MenuTypes  []string
	ActionType string
	MenuRoute  string
	ParentID   string
	ParentIDs  []string
	Authority  string
	Status     string
	Statuses   []string
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Menu, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// ListUsed returns the open menus reachable from open roots, ordered by weight then id.
	ListUsed(ctx context.Context) ([]*Menu, error)
	GetByMenuID(ctx context.Context, menuID string) (*Menu, error)
	Exists(ctx context.Context, menuID string) (bool, error)
	// DescendantsOf and AncestorsOf only walk through open, non-root menus.
	DescendantsOf(ctx context.Context, menuID string) ([]string, error)
	AncestorsOf(ctx context.Context, menuID string) ([]string, error)
	Create(ctx context.Context, m *Menu) error
	Update(ctx context.Context, m *Menu) error
}
