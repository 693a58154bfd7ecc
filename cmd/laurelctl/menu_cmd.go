package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence"
	"github.com/laurel-hq/laurel/modules/system/presentation/mappers"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/configuration"
	"github.com/laurel-hq/laurel/pkg/eventbus"
	"github.com/laurel-hq/laurel/pkg/hierarchy"
)

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Inspect menu hierarchies",
	}
	cmd.AddCommand(newMenuTreeCmd(), newMenuCheckCmd())
	return cmd
}

func newMenuTreeCmd() *cobra.Command {
	var appID string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the used menu tree of an app as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			ctx = composables.WithAppID(ctx, appID)
			logger := configuration.Use().Logger()
			svc := services.NewMenuService(
				persistence.NewMenuRepository(),
				services.NewNopMenuCache(),
				eventbus.NewEventPublisher(logger),
			)
			forest, err := svc.UsedTree(ctx)
			if err != nil {
				return withCode(exitDB, errors.Wrapf(err, "load used tree of %s", appID))
			}
			return writeJSON(cmd.OutOrStdout(), mappers.MenuForestToViewModels(forest))
		},
	}
	cmd.Flags().StringVar(&appID, "app", "", "App id (required)")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

type menuExport struct {
	AppID string       `yaml:"app_id"`
	Menus []menuRecord `yaml:"menus"`
}

type menuRecord struct {
	MenuID    string `yaml:"menu_id"`
	ParentID  string `yaml:"parent_id"`
	MenuName  string `yaml:"menu_name"`
	Weight    int32  `yaml:"weight"`
	Status    string `yaml:"menu_status"`
	MenuRoute string `yaml:"menu_route"`
}

type droppedMenu struct {
	MenuID   string `json:"menu_id"`
	ParentID string `json:"parent_id"`
	Reason   string `json:"reason"`
}

type checkReport struct {
	AppID    string         `json:"app_id"`
	Menus    int            `json:"menus"`
	Roots    int            `json:"roots"`
	Attached int            `json:"attached"`
	Subtrees map[string]int `json:"subtrees"`
	Dropped  []droppedMenu  `json:"dropped"`
}

func (e *menuExport) toMenus() []*menu.Menu {
	out := make([]*menu.Menu, 0, len(e.Menus))
	for _, r := range e.Menus {
		status := menu.StatusOpen
		if s, ok := menu.Statuses.Find(strings.TrimSpace(r.Status)); ok {
			status = s
		}
		parent := strings.TrimSpace(r.ParentID)
		if parent == "" {
			parent = r.MenuID
		}
		out = append(out, &menu.Menu{
			AppID:     e.AppID,
			MenuID:    r.MenuID,
			ParentID:  parent,
			MenuName:  r.MenuName,
			Weight:    r.Weight,
			Status:    status,
			MenuRoute: r.MenuRoute,
		})
	}
	slices.SortStableFunc(out, func(a, b *menu.Menu) int {
		return int(a.Weight) - int(b.Weight)
	})
	return out
}

// checkMenus assembles the open menus the way the used tree does and explains
// every menu left out of it.
func checkMenus(ctx context.Context, export *menuExport) *checkReport {
	all := export.toMenus()
	open := slices.DeleteFunc(slices.Clone(all), func(m *menu.Menu) bool { return !m.IsOpen() })

	forest, dropped := hierarchy.Assemble(open)
	report := &checkReport{
		AppID:    export.AppID,
		Menus:    len(all),
		Roots:    len(forest),
		Subtrees: make(map[string]int, len(forest)),
		Dropped:  []droppedMenu{},
	}
	index := hierarchy.NewIndex(all, (*menu.Menu).IsOpen)
	for _, t := range forest {
		report.Attached += t.Size()
		below, _ := index.DescendantsOf(ctx, t.Node.MenuID)
		report.Subtrees[t.Node.MenuID] = len(below)
	}

	byKey := make(map[string]*menu.Menu, len(open))
	for _, m := range open {
		if _, seen := byKey[m.MenuID]; !seen {
			byKey[m.MenuID] = m
		}
	}
	for _, m := range dropped {
		report.Dropped = append(report.Dropped, droppedMenu{
			MenuID:   m.MenuID,
			ParentID: m.ParentID,
			Reason:   dropReason(byKey, m),
		})
	}
	return report
}

func dropReason(byKey map[string]*menu.Menu, m *menu.Menu) string {
	seen := map[string]bool{m.MenuID: true}
	cur := m
	for !cur.IsRoot() {
		parent, ok := byKey[cur.ParentID]
		if !ok {
			if cur == m {
				return "parent " + cur.ParentID + " is missing or not open"
			}
			return "ancestor " + cur.ParentID + " is missing or not open"
		}
		if seen[parent.MenuID] {
			return "parent chain loops through " + parent.MenuID
		}
		seen[parent.MenuID] = true
		cur = parent
	}
	return "unreachable"
}

func newMenuCheckCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a YAML menu export offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			var export menuExport
			if err := readYAML(file, &export); err != nil {
				return err
			}
			report := checkMenus(cmd.Context(), &export)
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if len(report.Dropped) > 0 {
				return withCode(exitValidation, fmt.Errorf("%d menus are not reachable from a root", len(report.Dropped)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the YAML export (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
