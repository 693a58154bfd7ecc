package hierarchy

import (
	"context"
)

// Ancestry answers reachability questions over the active part of a hierarchy.
// Both directions exclude the start key and stop at the first inactive node.
// An unknown key or a key without active relatives yields an empty result, not an error.
type Ancestry interface {
	DescendantsOf(ctx context.Context, key string) ([]string, error)
	AncestorsOf(ctx context.Context, key string) ([]string, error)
}

// Index is an in-memory Ancestry over an already loaded node set.
type Index[T Node] struct {
	nodes    map[string]T
	children map[string][]string
	active   func(T) bool
}

// NewIndex indexes nodes. active decides whether a node takes part in traversal; nil means all do.
func NewIndex[T Node](nodes []T, active func(T) bool) *Index[T] {
	if active == nil {
		active = func(T) bool { return true }
	}
	idx := &Index[T]{
		nodes:    make(map[string]T, len(nodes)),
		children: make(map[string][]string),
		active:   active,
	}
	for _, n := range nodes {
		if _, seen := idx.nodes[n.Key()]; seen {
			continue
		}
		idx.nodes[n.Key()] = n
		if !IsRoot(n) {
			idx.children[n.ParentKey()] = append(idx.children[n.ParentKey()], n.Key())
		}
	}
	return idx
}

func (idx *Index[T]) DescendantsOf(_ context.Context, key string) ([]string, error) {
	out := []string{}
	visited := map[string]bool{key: true}
	queue := []string{key}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range idx.children[cur] {
			if visited[c] || !idx.active(idx.nodes[c]) {
				continue
			}
			visited[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out, nil
}

// AncestorsOf follows parent links upwards. Each step starts from an active, non-root
// node, so the parent of the last active node is still reported.
func (idx *Index[T]) AncestorsOf(_ context.Context, key string) ([]string, error) {
	out := []string{}
	visited := map[string]bool{key: true}
	cur, ok := idx.nodes[key]
	for ok && !IsRoot(cur) && idx.active(cur) {
		parentKey := cur.ParentKey()
		if visited[parentKey] {
			break
		}
		visited[parentKey] = true
		out = append(out, parentKey)
		cur, ok = idx.nodes[parentKey]
	}
	return out, nil
}
