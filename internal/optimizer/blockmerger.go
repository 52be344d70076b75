package optimizer

import "cprizm/internal/ir"

// BlockMerger folds a block ending in an unconditional Jump into its unique
// successor when that successor has no other predecessor, eliminating the
// jump entirely. This is the "Must-have" optimization from
// internal/ir/optimizations.go's roadmap comment, generalized from EVM basic
// blocks to this IR's BlockID-addressed arena.
type BlockMerger struct{}

func (BlockMerger) Name() string { return "BlockMerger" }

func (BlockMerger) Run(fn *ir.FunctionDefinition) *ir.FunctionDefinition {
	changed := true
	for changed {
		changed = false
		for _, b := range fn.Blocks() {
			if tryMerge(fn, b) {
				changed = true
			}
		}
	}
	return fn
}

func tryMerge(fn *ir.FunctionDefinition, b *ir.BasicBlock) bool {
	if len(b.Statements) == 0 {
		return false
	}
	j, ok := b.Statements[len(b.Statements)-1].(ir.Jump)
	if !ok {
		return false
	}
	target := fn.Block(j.Target)
	if target == nil || target.ID() == b.ID() {
		return false
	}
	if len(target.Predecessors) != 1 || target.Predecessors[0] != b.ID() {
		return false
	}

	b.Statements = b.Statements[:len(b.Statements)-1]
	b.Statements = append(b.Statements, target.Statements...)
	for _, succ := range target.Successors() {
		if s := fn.Block(succ); s != nil {
			replacePredecessor(s, target.ID(), b.ID())
		}
	}
	target.Statements = nil
	return true
}

func replacePredecessor(b *ir.BasicBlock, old, replacement ir.BlockID) {
	for i, p := range b.Predecessors {
		if p == old {
			b.Predecessors[i] = replacement
			return
		}
	}
}
