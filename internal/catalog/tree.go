package catalog

// The tree logic works over an id-indexed arena with child lists held as id
// slices. All walks are iterative over indices, so a corrupted parent chain
// degrades into skipped nodes instead of unbounded recursion.

type arena struct {
	nodes    map[int64]*Category
	children map[int64][]int64
	roots    []int64
}

// newArena indexes the flat category list in one pass and partitions it into
// parented nodes and roots in a second. A node whose parent id does not
// resolve is treated as a root rather than dropped, so the node count of the
// output always matches the input.
func newArena(flat []*Category) *arena {
	a := &arena{
		nodes:    make(map[int64]*Category, len(flat)),
		children: make(map[int64][]int64, len(flat)),
	}

	for _, c := range flat {
		a.nodes[c.ID] = c
	}

	for _, c := range flat {
		if c.ParentID != nil {
			if _, ok := a.nodes[*c.ParentID]; ok {
				a.children[*c.ParentID] = append(a.children[*c.ParentID], c.ID)
				continue
			}
		}
		a.roots = append(a.roots, c.ID)
	}

	return a
}

// BuildForest assembles the flat category list into a rooted forest. Each
// node is the single instance from the arena; sibling order follows input
// order. An empty input yields an empty forest.
func BuildForest(flat []*Category) []*Category {
	a := newArena(flat)

	for _, c := range flat {
		ids := a.children[c.ID]
		if len(ids) == 0 {
			c.Children = nil
			continue
		}
		c.Children = make([]*Category, 0, len(ids))
		for _, id := range ids {
			c.Children = append(c.Children, a.nodes[id])
		}
	}

	forest := make([]*Category, 0, len(a.roots))
	for _, id := range a.roots {
		forest = append(forest, a.nodes[id])
	}
	return forest
}

// SubtreeIDs returns the id of the given category and every descendant,
// deepest-first, which is the order a cascade delete must use so that no
// child outlives its parent's deletion step. The second return reports
// whether the root exists at all.
func SubtreeIDs(flat []*Category, rootID int64) ([]int64, bool) {
	a := newArena(flat)
	if _, ok := a.nodes[rootID]; !ok {
		return nil, false
	}

	var preorder []int64
	visited := make(map[int64]bool, len(flat))
	stack := []int64{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		preorder = append(preorder, id)
		childIDs := a.children[id]
		for i := len(childIDs) - 1; i >= 0; i-- {
			stack = append(stack, childIDs[i])
		}
	}

	for i, j := 0, len(preorder)-1; i < j; i, j = i+1, j-1 {
		preorder[i], preorder[j] = preorder[j], preorder[i]
	}
	return preorder, true
}

// PathSegments walks from the given category up to its root and returns the
// names root-first. The walk is bounded by the node count, so a cycle in the
// parent chain terminates instead of looping.
func PathSegments(flat []*Category, categoryID int64) []string {
	byID := make(map[int64]*Category, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	var reversed []string
	seen := make(map[int64]bool, len(flat))
	for id := categoryID; ; {
		c, ok := byID[id]
		if !ok || seen[id] {
			break
		}
		seen[id] = true
		reversed = append(reversed, c.Name)
		if c.ParentID == nil {
			break
		}
		id = *c.ParentID
	}

	segments := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		segments = append(segments, reversed[i])
	}
	return segments
}
