// Package hierarchy shapes parent-keyed records into forests and answers reachability
// questions over them.
//
// A node is a root when its parent key equals its own key; there is no empty parent.
package hierarchy

type Node interface {
	Key() string
	ParentKey() string
	DisplayName() string
}

func IsRoot(n Node) bool {
	return n.ParentKey() == n.Key()
}

type Tree[T Node] struct {
	Node       T
	ParentName string
	Children   []*Tree[T]
}

// Size counts the nodes of the subtree rooted at t.
func (t *Tree[T]) Size() int {
	n := 0
	stack := []*Tree[T]{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, cur.Children...)
	}
	return n
}

// Assemble builds the forest of nodes in a single bottom-up pass.
//
// Sibling and root order is the input order; nodes must already be sorted (weight, id).
// Nodes that cannot be reached from a root (unknown parent, or a parent chain that never
// ends in a root) are left out of the forest and returned as dropped.
func Assemble[T Node](nodes []T) (forest []*Tree[T], dropped []T) {
	n := len(nodes)
	if n == 0 {
		return []*Tree[T]{}, nil
	}

	position := make(map[string]int, n)
	for i, node := range nodes {
		if _, seen := position[node.Key()]; !seen {
			position[node.Key()] = i
		}
	}

	var roots []int
	children := make(map[int][]int)
	for i, node := range nodes {
		if IsRoot(node) {
			roots = append(roots, i)
			continue
		}
		if parent, ok := position[node.ParentKey()]; ok {
			children[parent] = append(children[parent], i)
		}
	}

	// Breadth-first levelling. Every position sits in exactly one child list, so each
	// reachable position is enqueued once and the queue is ordered by non-decreasing depth.
	reached := make([]bool, n)
	queue := make([]int, 0, n)
	for _, r := range roots {
		reached[r] = true
		queue = append(queue, r)
	}
	for head := 0; head < len(queue); head++ {
		for _, c := range children[queue[head]] {
			if !reached[c] {
				reached[c] = true
				queue = append(queue, c)
			}
		}
	}

	// Walking the queue backwards visits the deepest positions first, so every child
	// subtree is finished before its parent takes ownership of it.
	built := make([]*Tree[T], n)
	for i := len(queue) - 1; i >= 0; i-- {
		p := queue[i]
		kids := children[p]
		t := &Tree[T]{
			Node:     nodes[p],
			Children: make([]*Tree[T], 0, len(kids)),
		}
		for _, c := range kids {
			child := built[c]
			built[c] = nil
			child.ParentName = nodes[p].DisplayName()
			t.Children = append(t.Children, child)
		}
		built[p] = t
	}

	forest = make([]*Tree[T], 0, len(roots))
	for _, r := range roots {
		t := built[r]
		built[r] = nil
		t.ParentName = nodes[r].DisplayName()
		forest = append(forest, t)
	}
	for i, ok := range reached {
		if !ok {
			dropped = append(dropped, nodes[i])
		}
	}
	return forest, dropped
}
