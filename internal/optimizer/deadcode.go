package optimizer

import "cprizm/internal/ir"

// DeadCode removes assignments whose target is never used anywhere in the
// function (grounded on the original's optimizer/src/optimizations/deadcode.rs:
// compute the reachable-used-variable set, then drop any statement defining
// a variable outside it, repeating until a pass drops nothing). Running it
// twice in a row is idempotent: the second pass finds nothing new to remove
// because the first pass already pruned every unused definition.
type DeadCode struct{}

func (DeadCode) Name() string { return "DeadCode" }

func (DeadCode) Run(fn *ir.FunctionDefinition) *ir.FunctionDefinition {
	used := usedVariables(fn)
	removed := false

	for _, b := range fn.Blocks() {
		kept := b.Statements[:0:0]
		for _, s := range b.Statements {
			if isSideEffecting(s) {
				kept = append(kept, s)
				continue
			}
			def, has := s.DefinedVariable()
			if !has {
				kept = append(kept, s)
				continue
			}
			if _, stillUsed := used[def.Key()]; stillUsed {
				kept = append(kept, s)
			} else {
				removed = true
			}
		}
		b.Statements = kept
	}
	if removed {
		return DeadCode{}.Run(fn)
	}
	return fn
}

// isSideEffecting reports statements that must never be removed as dead
// even though they may define nothing useful (memory writes, calls, saves,
// control flow, inline asm).
func isSideEffecting(s ir.Statement) bool {
	switch s.(type) {
	case ir.WriteMemory, ir.Call, ir.SaveVariable, ir.SaveGlobalVariable,
		ir.Return, ir.Jump, ir.JumpTrue:
		return true
	case ir.InlineAsm:
		return true
	default:
		return false
	}
}

func usedVariables(fn *ir.FunctionDefinition) map[ir.VarKey]struct{} {
	used := make(map[ir.VarKey]struct{})
	for _, b := range fn.Blocks() {
		for _, s := range b.Statements {
			for _, v := range s.UsedVariables() {
				used[v.Key()] = struct{}{}
			}
		}
	}
	return used
}
