package hierarchy

import (
	"context"
	"errors"
	"slices"
)

var ErrCycle = errors.New("cannot move a node under its own descendant")

// CanReparent reports whether key may be placed under proposedParent.
// Moving a node under itself makes it a root and is always allowed. Only active
// descendants are consulted, so a cycle that passes through an inactive node is not detected.
func CanReparent(ctx context.Context, ancestry Ancestry, key, proposedParent string) (bool, error) {
	if proposedParent == key {
		return true, nil
	}
	descendants, err := ancestry.DescendantsOf(ctx, key)
	if err != nil {
		return false, err
	}
	return !slices.Contains(descendants, proposedParent), nil
}
