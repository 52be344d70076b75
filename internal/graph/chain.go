package graph

// EntryKind discriminates the three shapes a ChainEntry can take.
type EntryKind int

const (
	EntryNode EntryKind = iota
	EntryBranched
	EntryCycle
)

// ChainEntry is one step yielded by a Chain: either a single straight-line
// node, a branch whose two sides rejoin at a common descendant, or a cycle
// whose inner chain is the loop body run exactly once.
type ChainEntry[ID comparable, N Node[ID]] interface {
	Kind() EntryKind
}

// NodeEntry wraps a single straight-line node.
type NodeEntry[ID comparable, N Node[ID]] struct {
	Node N
}

func (NodeEntry[ID, N]) Kind() EntryKind { return EntryNode }

// BranchedEntry carries one sub-chain per side of a two-way branch, each
// bounded (exclusive) by the join node both sides rejoin at.
type BranchedEntry[ID comparable, N Node[ID]] struct {
	Left, Right *Chain[ID, N]
}

func (BranchedEntry[ID, N]) Kind() EntryKind { return EntryBranched }

// CycleEntry carries the loop head's ID and a chain over the loop body,
// bounded (exclusive) by the head itself.
type CycleEntry[ID comparable, N Node[ID]] struct {
	Head  ID
	Inner *Chain[ID, N]
}

func (CycleEntry[ID, N]) Kind() EntryKind { return EntryCycle }

// prevKind records which branch of Next's switch produced the cached
// successor classification, mirroring PreviousSucc in the source.
type prevKind int

const (
	prevNode prevKind = iota
	prevBranched
	prevCycle
)

type prevSucc[ID comparable] struct {
	kind prevKind

	sideA, sideB ID
	end          ID

	head, inner ID
}

// Chain iterates a reachable subgraph of a Graph, yielding ChainEntry values
// in the order described by spec.md §4.1: left side fully, then right side,
// then the join for a branch; head once, then body, then post-cycle nodes
// for a cycle.
type Chain[ID comparable, N Node[ID]] struct {
	graph *Graph[ID, N]
	next  *ID
	end   *ID
	prev  *prevSucc[ID]
}

func newChain[ID comparable, N Node[ID]](g *Graph[ID, N], start *ID) *Chain[ID, N] {
	return &Chain[ID, N]{graph: g, next: start}
}

// SetEnd marks end as the exclusive bound of this chain: iteration stops
// before advancing into it, though a chain whose very first node equals end
// still yields that node.
func (c *Chain[ID, N]) SetEnd(end ID) *Chain[ID, N] {
	c.end = &end
	return c
}

// Duplicate returns a new Chain with identical remaining state, leaving c
// untouched.
func (c *Chain[ID, N]) Duplicate() *Chain[ID, N] {
	dup := &Chain[ID, N]{graph: c.graph, next: c.next, end: c.end}
	if c.prev != nil {
		p := *c.prev
		dup.prev = &p
	}
	return dup
}

// Graph returns the graph this chain walks.
func (c *Chain[ID, N]) Graph() *Graph[ID, N] { return c.graph }

// Next returns the next ChainEntry, or (nil, false) when the chain is
// exhausted.
func (c *Chain[ID, N]) Next() (ChainEntry[ID, N], bool) {
	nextID := c.next
	c.next = nil

	var ctx chainContext[ID]
	if c.end != nil {
		ctx = chainContext[ID]{hasHead: true, head: *c.end}
	}

	if c.prev != nil {
		prev := c.prev
		c.prev = nil
		switch prev.kind {
		case prevNode:
			// fall through to normal handling of nextID below
		case prevBranched:
			c.next = nextID
			left := c.graph.ChainFrom(prev.sideA).SetEnd(prev.end)
			right := c.graph.ChainFrom(prev.sideB).SetEnd(prev.end)
			return BranchedEntry[ID, N]{Left: left, Right: right}, true
		case prevCycle:
			c.next = nextID
			inner := c.graph.ChainFrom(prev.inner).SetEnd(prev.head)
			return CycleEntry[ID, N]{Head: prev.head, Inner: inner}, true
		}
	}

	if nextID == nil {
		return nil, false
	}
	id := *nextID

	node, ok := c.graph.Node(id)
	if !ok {
		return nil, false
	}

	st, has := computeSuccType(c.graph, id, ctx)
	if !has {
		return NodeEntry[ID, N]{Node: node}, true
	}

	switch st.kind {
	case succSingle:
		if c.end == nil || st.single != *c.end {
			s := st.single
			c.next = &s
		}
		c.prev = &prevSucc[ID]{kind: prevNode}
		return NodeEntry[ID, N]{Node: node}, true
	case succBranched:
		e := st.end
		c.next = &e
		c.prev = &prevSucc[ID]{kind: prevBranched, sideA: st.sideA, sideB: st.sideB, end: st.end}
		return NodeEntry[ID, N]{Node: node}, true
	case succCycle:
		c.next = st.following
		c.prev = &prevSucc[ID]{kind: prevCycle, head: id, inner: st.inner}
		return NodeEntry[ID, N]{Node: node}, true
	default:
		return nil, false
	}
}

// Flatten turns the chain into a FlatChain that yields plain nodes,
// recursively descending into Branched and Cycle entries and marking each
// node visited at most once.
func (c *Chain[ID, N]) Flatten() *FlatChain[ID, N] {
	return newFlatChain(c)
}
