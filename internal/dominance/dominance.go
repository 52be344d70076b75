// Package dominance builds the dominance tree of variables spec.md §4.4
// describes: a tree where a variable's parent is the most recent definition
// that dominates it along the chain walk. It is built by walking the same
// chain iterator every other analysis in this compiler uses - there is no
// separate dominator-tree algorithm for blocks.
package dominance

import (
	"cprizm/internal/graph"
	"cprizm/internal/ir"
)

// Node is one entry in the dominance tree: the variable defined at this
// point, its parent, and its children in definition order.
type Node struct {
	Var      ir.Variable
	Parent   *Node
	Children []*Node
}

// Tree is the dominance tree of variables for one function, rooted at a
// synthetic node representing function entry (no variable, used only to
// anchor the function's arguments and first definitions).
type Tree struct {
	Root *Node
}

type blockNode struct{ b *ir.BasicBlock }

func (n blockNode) ID() ir.BlockID            { return n.b.ID() }
func (n blockNode) Successors() []ir.BlockID  { return n.b.Successors() }

// Build walks fn's reachable blocks via the chain iterator and constructs
// the dominance tree of variables.
func Build(fn *ir.FunctionDefinition) *Tree {
	root := &Node{}
	g := graph.New[ir.BlockID, blockNode]()
	for _, b := range fn.Blocks() {
		g.AddNode(blockNode{b: b})
	}

	buildChain(g.ChainFrom(fn.Entry), root)
	return &Tree{Root: root}
}

// buildChain walks chain, appending definitions as children of "current",
// advancing current to the most recently appended node as it goes -
// grounded on the original's generate_chain/current_node/
// append_tree_to_node/move_to_node sequence.
func buildChain(chain *graph.Chain[ir.BlockID, blockNode], current *Node) {
	for {
		entry, ok := chain.Next()
		if !ok {
			return
		}
		switch e := entry.(type) {
		case graph.NodeEntry[ir.BlockID, blockNode]:
			for _, a := range e.Node.b.Statements {
				def, has := a.DefinedVariable()
				if !has {
					continue
				}
				child := &Node{Var: def, Parent: current}
				current.Children = append(current.Children, child)
				current = child
			}
		case graph.BranchedEntry[ir.BlockID, blockNode]:
			// Both sides branch off the same shared parent; each side
			// advances its own local cursor, siblings beneath "current".
			buildChain(e.Left, current)
			buildChain(e.Right, current)
		case graph.CycleEntry[ir.BlockID, blockNode]:
			buildChain(e.Inner, current)
		}
	}
}

// PostOrder returns every node of the tree in post-order (children before
// parent, left to right): a variable is colored only after every variable
// it dominates, which is exactly the order the coloring allocator (C7)
// needs.
func PostOrder(t *Tree) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			walk(c)
		}
		if n.Var.Name != "" {
			out = append(out, n)
		}
	}
	walk(t.Root)
	return out
}
