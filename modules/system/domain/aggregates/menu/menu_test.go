package menu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/pkg/hierarchy"
)

func TestMenu_IsHierarchyNode(t *testing.T) {
	root := &Menu{MenuID: "m1", ParentID: "m1", MenuName: "Home"}
	child := &Menu{MenuID: "m2", ParentID: "m1", MenuName: "Users"}

	require.True(t, hierarchy.IsRoot(root))
	require.True(t, root.IsRoot())
	require.False(t, hierarchy.IsRoot(child))

	forest, dropped := hierarchy.Assemble([]*Menu{root, child})
	require.Empty(t, dropped)
	require.Len(t, forest, 1)
	require.Equal(t, "Home", forest[0].Children[0].ParentName)
}

func TestCatalogs(t *testing.T) {
	require.True(t, Statuses.Valid("deleted"))
	require.False(t, Statuses.Valid("archived"))
	require.Equal(t, "Button", Types.Label(TypeButton))

	opts := ActionTypes.Options()
	require.Len(t, opts, 3)
	require.Equal(t, ActionRoute, opts[0].Value)
	require.Equal(t, "Iframe", opts[2].Label)
}

func TestUpdatedEvent_Reparented(t *testing.T) {
	e := UpdatedEvent{
		Data:   Menu{MenuID: "m2", ParentID: "m1"},
		Result: Menu{MenuID: "m2", ParentID: "m3"},
	}
	require.True(t, e.Reparented())
	e.Result.ParentID = "m1"
	require.False(t, e.Reparented())
}
