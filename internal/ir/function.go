package ir

import "cprizm/internal/graph"

// Parameter is one function argument: a name and a type.
type Parameter struct {
	Name string
	Type Type
}

// FunctionDefinition is a name, ordered arguments, a return type and an
// entry block, plus the arena of blocks it owns and the variable factory
// shared by every block belonging to it.
type FunctionDefinition struct {
	Name       string
	Arguments  []Parameter
	ReturnType Type
	Entry      BlockID

	Vars *VariableFactory

	blocks map[BlockID]*BasicBlock
	nextID BlockID
}

// NewFunctionDefinition creates a function with a single, empty entry
// block.
func NewFunctionDefinition(name string, args []Parameter, ret Type) *FunctionDefinition {
	f := &FunctionDefinition{
		Name:       name,
		Arguments:  args,
		ReturnType: ret,
		Vars:       NewVariableFactory(),
		blocks:     make(map[BlockID]*BasicBlock),
	}
	f.Entry = f.NewBlock("entry")
	return f
}

// NewBlock allocates a fresh block in this function's arena.
func (f *FunctionDefinition) NewBlock(description string) BlockID {
	id := f.nextID
	f.nextID++
	f.blocks[id] = &BasicBlock{id: id, Description: description}
	return id
}

// Block looks up a block by ID.
func (f *FunctionDefinition) Block(id BlockID) *BasicBlock {
	return f.blocks[id]
}

// Blocks returns every block in the arena, in ID order, regardless of
// reachability. Passes that need only reachable blocks should walk the
// chain iterator (Chain) instead.
func (f *FunctionDefinition) Blocks() []*BasicBlock {
	out := make([]*BasicBlock, 0, len(f.blocks))
	for id := BlockID(0); id < f.nextID; id++ {
		if b, ok := f.blocks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Link appends from to the predecessor list of each of its jump targets;
// called after a block's terminator is finalized.
func (f *FunctionDefinition) Link(from BlockID) {
	block := f.blocks[from]
	if block == nil {
		return
	}
	for _, succ := range block.Successors() {
		if s := f.blocks[succ]; s != nil {
			s.AddPredecessor(from)
		}
	}
}

// blockGraphNode adapts *BasicBlock to graph.Node[BlockID] without making
// the ir package depend on graph's generic instantiation elsewhere.
type blockGraphNode struct{ b *BasicBlock }

func (n blockGraphNode) ID() BlockID          { return n.b.ID() }
func (n blockGraphNode) Successors() []BlockID { return n.b.Successors() }

// Graph builds the generic directed graph over every block in this
// function's arena, reachable or not, for consumption by the chain
// iterator.
func (f *FunctionDefinition) Graph() *graph.Graph[BlockID, blockGraphNode] {
	g := graph.New[BlockID, blockGraphNode]()
	for _, b := range f.Blocks() {
		g.AddNode(blockGraphNode{b: b})
	}
	return g
}

// Chain returns a chain iterator over this function's reachable blocks,
// starting at Entry - the sole structural primitive every analysis in C3,
// C4 and the loop-pressure estimator routes through.
func (f *FunctionDefinition) Chain() *graph.Chain[BlockID, blockGraphNode] {
	g := graph.New[BlockID, blockGraphNode]()
	for _, b := range f.Blocks() {
		g.AddNode(blockGraphNode{b: b})
	}
	return g.ChainFrom(f.Entry)
}
