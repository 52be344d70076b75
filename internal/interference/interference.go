// Package interference builds the undirected variable-interference graph
// spec.md §4.3 describes, driven by a single walk of the chain iterator
// with a per-path live-variable map.
package interference

import (
	"cprizm/internal/graph"
	"cprizm/internal/ir"
)

// Graph is the undirected interference graph: two variables interfere iff
// they were simultaneously live at some program point observed during
// construction.
type Graph struct {
	edges map[ir.VarKey]map[ir.VarKey]struct{}
	vars  map[ir.VarKey]ir.Variable
}

func newGraph() *Graph {
	return &Graph{edges: make(map[ir.VarKey]map[ir.VarKey]struct{}), vars: make(map[ir.VarKey]ir.Variable)}
}

func (g *Graph) addNode(v ir.Variable) {
	k := v.Key()
	if _, ok := g.edges[k]; !ok {
		g.edges[k] = make(map[ir.VarKey]struct{})
		g.vars[k] = v
	}
}

func (g *Graph) addEdge(a, b ir.Variable) {
	if a.Key() == b.Key() {
		return
	}
	g.addNode(a)
	g.addNode(b)
	g.edges[a.Key()][b.Key()] = struct{}{}
	g.edges[b.Key()][a.Key()] = struct{}{}
}

// Interferes reports whether a and b share an edge.
func (g *Graph) Interferes(a, b ir.Variable) bool {
	neighbors, ok := g.edges[a.Key()]
	if !ok {
		return false
	}
	_, ok = neighbors[b.Key()]
	return ok
}

// Neighbors returns every variable interfering with v.
func (g *Graph) Neighbors(v ir.Variable) []ir.Variable {
	out := make([]ir.Variable, 0, len(g.edges[v.Key()]))
	for k := range g.edges[v.Key()] {
		out = append(out, g.vars[k])
	}
	return out
}

// liveVars maps a live variable to its remaining-uses count along the
// current path.
type liveVars map[ir.VarKey]int

func (l liveVars) clone() liveVars {
	out := make(liveVars, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

type blockNode struct{ b *ir.BasicBlock }

func (n blockNode) ID() ir.BlockID           { return n.b.ID() }
func (n blockNode) Successors() []ir.BlockID { return n.b.Successors() }

// Build constructs the interference graph for fn by walking the chain
// iterator once, per spec.md §4.3's algorithm.
func Build(fn *ir.FunctionDefinition) *Graph {
	g := newGraph()
	vars := make(map[ir.VarKey]ir.Variable)
	chainGraph := graph.New[ir.BlockID, blockNode]()
	for _, b := range fn.Blocks() {
		chainGraph.AddNode(blockNode{b: b})
	}

	live := liveVars{}
	walk(chainGraph.ChainFrom(fn.Entry), live, g, vars)
	return g
}

func remember(vars map[ir.VarKey]ir.Variable, v ir.Variable) {
	vars[v.Key()] = v
}

// walk processes chain, mutating live in place as it advances, and returns
// the live set at the chain's end (used by callers that need to propagate
// liveness past a branch/cycle boundary).
func walk(chain *graph.Chain[ir.BlockID, blockNode], live liveVars, g *Graph, vars map[ir.VarKey]ir.Variable) liveVars {
	for {
		entry, ok := chain.Next()
		if !ok {
			return live
		}
		switch e := entry.(type) {
		case graph.NodeEntry[ir.BlockID, blockNode]:
			stmts := e.Node.b.Statements
			for i, s := range stmts {
				for _, used := range s.UsedVariables() {
					remember(vars, used)
					k := used.Key()
					if n, ok := live[k]; ok {
						if n <= 1 {
							delete(live, k)
						} else {
							live[k] = n - 1
						}
					}
				}
				if def, has := s.DefinedVariable(); has {
					remember(vars, def)
					future := countInStatements(def, stmts[i+1:]) + countFutureUses(def, chain)
					if future > 0 {
						live[def.Key()] = future
					}
					for k := range live {
						if k == def.Key() {
							continue
						}
						g.addEdge(def, vars[k])
					}
					g.addNode(def)
				}
			}
		case graph.BranchedEntry[ir.BlockID, blockNode]:
			leftLive := walk(e.Left, live.clone(), g, vars)
			rightLive := walk(e.Right, live.clone(), g, vars)
			live = mergeMin(leftLive, rightLive)
		case graph.CycleEntry[ir.BlockID, blockNode]:
			live = walk(e.Inner, live.clone(), g, vars)
		}
	}
}

// mergeMin merges two branch-local live sets: variables live on both sides
// keep the smaller remaining-use count; variables exclusive to either side
// are kept as-is.
func mergeMin(a, b liveVars) liveVars {
	out := make(liveVars, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if cur, ok := out[k]; !ok || v < cur {
			out[k] = v
		}
	}
	return out
}

// countInStatements counts how many times def is used by stmts.
func countInStatements(def ir.Variable, stmts []ir.Statement) int {
	count := 0
	for _, s := range stmts {
		for _, u := range s.UsedVariables() {
			if u.Key() == def.Key() {
				count++
			}
		}
	}
	return count
}

// countFutureUses walks a duplicate of the remaining chain to count how many
// times def is used from this point forward, without mutating the real
// walk's state. The loop executes at most once per definition site, which
// keeps this a worst-case O(n) pass per variable rather than the
// interference builder's overall complexity exploding - acceptable for the
// function sizes this compiler targets.
func countFutureUses(def ir.Variable, chain *graph.Chain[ir.BlockID, blockNode]) int {
	dup := chain.Duplicate()
	count := 0
	var visit func(c *graph.Chain[ir.BlockID, blockNode])
	visit = func(c *graph.Chain[ir.BlockID, blockNode]) {
		for {
			entry, ok := c.Next()
			if !ok {
				return
			}
			switch e := entry.(type) {
			case graph.NodeEntry[ir.BlockID, blockNode]:
				for _, s := range e.Node.b.Statements {
					for _, u := range s.UsedVariables() {
						if u.Key() == def.Key() {
							count++
						}
					}
				}
			case graph.BranchedEntry[ir.BlockID, blockNode]:
				visit(e.Left)
				visit(e.Right)
			case graph.CycleEntry[ir.BlockID, blockNode]:
				visit(e.Inner)
			}
		}
	}
	visit(dup)
	return count
}
