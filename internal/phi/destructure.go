// Package phi rewrites phi-node assignments into copies inserted on the
// incoming edges they represent, the step every back end needs before
// lowering since real hardware has no phi instruction.
package phi

import "cprizm/internal/ir"

// Destructure rewrites every phi assignment in fn into a plain Assignment
// inserted into each predecessor block immediately before the terminator
// that jumps into the phi's block, then drops the phi assignments
// themselves. Grounded on backend/util/destructure.rs's destructure_func;
// the "upgrade a weak block reference" step there is unnecessary here since
// PhiEntry already carries a BlockID looked up directly in fn's arena.
func Destructure(fn *ir.FunctionDefinition) {
	for _, block := range fn.Blocks() {
		blockID := block.ID()

		var phis []ir.Assignment
		for _, s := range block.Statements {
			a, ok := s.(ir.Assignment)
			if !ok {
				continue
			}
			if _, isPhi := a.Value.(ir.PhiValue); isPhi {
				phis = append(phis, a)
			}
		}

		for _, p := range phis {
			sources := p.Value.(ir.PhiValue).Sources
			for _, source := range sources {
				predBlock := fn.Block(source.Pred)
				if predBlock == nil {
					continue
				}
				insertCopyBeforeTerminator(predBlock, blockID, p.Target, source.Var)
			}
		}

		if len(phis) == 0 {
			continue
		}
		kept := block.Statements[:0:0]
		for _, s := range block.Statements {
			if a, ok := s.(ir.Assignment); ok {
				if _, isPhi := a.Value.(ir.PhiValue); isPhi {
					continue
				}
			}
			kept = append(kept, s)
		}
		block.Statements = kept
	}
}

// insertCopyBeforeTerminator inserts `target = source` immediately before
// the statement in predBlock that jumps into targetBlock (its Jump, or the
// JumpTrue branching there).
func insertCopyBeforeTerminator(predBlock *ir.BasicBlock, targetBlock ir.BlockID, target, source ir.Variable) {
	copyStmt := ir.Assignment{Target: target, Value: ir.VariableValue{Var: source}}

	idx := -1
	for i, s := range predBlock.Statements {
		switch t := s.(type) {
		case ir.Jump:
			if t.Target == targetBlock {
				idx = i
			}
		case ir.JumpTrue:
			if t.Target == targetBlock {
				idx = i
			}
		}
		if idx != -1 {
			break
		}
	}
	if idx == -1 {
		predBlock.Statements = append(predBlock.Statements, copyStmt)
		return
	}

	predBlock.Statements = append(predBlock.Statements, nil)
	copy(predBlock.Statements[idx+1:], predBlock.Statements[idx:])
	predBlock.Statements[idx] = copyStmt
}
