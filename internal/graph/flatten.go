package graph

// FlatChain wraps a Chain and yields nodes one at a time, recursively
// descending into Branched and Cycle entries. It guarantees every reachable
// node is visited exactly once even though Branched/Cycle sub-chains may
// overlap with later entries of the outer chain at their shared join/head.
type FlatChain[ID comparable, N Node[ID]] struct {
	visited map[ID]struct{}
	stack   []*Chain[ID, N]
}

func newFlatChain[ID comparable, N Node[ID]](c *Chain[ID, N]) *FlatChain[ID, N] {
	return &FlatChain[ID, N]{
		visited: make(map[ID]struct{}),
		stack:   []*Chain[ID, N]{c},
	}
}

// Next returns the next unvisited node, or (zero, false) once every
// reachable node has been produced.
func (f *FlatChain[ID, N]) Next() (N, bool) {
	var zero N
	for len(f.stack) > 0 {
		top := f.stack[len(f.stack)-1]
		entry, ok := top.Next()
		if !ok {
			f.stack = f.stack[:len(f.stack)-1]
			continue
		}
		switch e := entry.(type) {
		case NodeEntry[ID, N]:
			id := e.Node.ID()
			if _, seen := f.visited[id]; seen {
				continue
			}
			f.visited[id] = struct{}{}
			return e.Node, true
		case BranchedEntry[ID, N]:
			// Left fully, then right, then resume the outer chain (already
			// on the stack below) at the join.
			f.stack = append(f.stack, e.Right, e.Left)
		case CycleEntry[ID, N]:
			f.stack = append(f.stack, e.Inner)
		}
	}
	return zero, false
}

// All drains the FlatChain into a slice, in visitation order.
func (f *FlatChain[ID, N]) All() []N {
	var out []N
	for {
		n, ok := f.Next()
		if !ok {
			return out
		}
		out = append(out, n)
	}
}
