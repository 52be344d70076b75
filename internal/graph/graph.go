// Package graph implements the generic directed-graph substrate every
// control-flow analysis in the compiler is built on: a chain iterator that
// decomposes a reachable subgraph into Node, Branched and Cycle entries.
// There is deliberately no separate dominator-tree algorithm and no
// separate loop detector; every analysis that needs either routes through
// the chain iterator in this package.
package graph

// Node is implemented by anything that can sit in a Graph. IDs must be
// comparable so they can key a map; successors are reported in the order
// that determines the fall-through edge (the first successor is the edge
// not taken by a conditional branch).
type Node[ID comparable] interface {
	ID() ID
	Successors() []ID
}

// Graph is a generic directed graph keyed by node ID.
type Graph[ID comparable, N Node[ID]] struct {
	initial *ID
	nodes   map[ID]N
}

// New creates an empty graph.
func New[ID comparable, N Node[ID]]() *Graph[ID, N] {
	return &Graph[ID, N]{nodes: make(map[ID]N)}
}

// AddNode inserts n into the graph. The first node added becomes the
// graph's initial node for ChainIter.
func (g *Graph[ID, N]) AddNode(n N) ID {
	id := n.ID()
	g.nodes[id] = n
	if g.initial == nil {
		idCopy := id
		g.initial = &idCopy
	}
	return id
}

// Node looks up a node by ID.
func (g *Graph[ID, N]) Node(id ID) (N, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len reports the number of nodes in the graph.
func (g *Graph[ID, N]) Len() int {
	return len(g.nodes)
}

// ChainIter returns a Chain starting at the graph's initial node.
func (g *Graph[ID, N]) ChainIter() *Chain[ID, N] {
	return newChain(g, g.initial)
}

// ChainFrom returns a Chain starting at an explicit node.
func (g *Graph[ID, N]) ChainFrom(start ID) *Chain[ID, N] {
	s := start
	return newChain(g, &s)
}
