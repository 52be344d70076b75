// Package compile drives the whole-function pipeline that turns irbuild's
// output into something a back end can lower: optimize, spill to the
// target's register budget, destructure phis, color, and plan the stack
// frame. Each phase is an existing package (optimizer, regalloc, phi,
// frame); this package only sequences them and threads the spiller's
// bookkeeping across block boundaries in fn.Chain() order, which neither
// irbuild nor regalloc does on its own.
package compile

import (
	"cprizm/internal/arch"
	"cprizm/internal/frame"
	"cprizm/internal/graph"
	"cprizm/internal/ir"
	"cprizm/internal/optimizer"
	"cprizm/internal/phi"
	"cprizm/internal/regalloc"
)

// Result is everything a backend's Lower needs for one function.
type Result struct {
	Function *ir.FunctionDefinition
	Mapping  regalloc.Mapping
	Frame    frame.Plan
	Reloads  *regalloc.ReloadList
}

// Function runs the post-irbuild pipeline for fn against descriptor at the
// given optimization level, returning the allocated function plus its
// register mapping and frame plan.
func Function(fn *ir.FunctionDefinition, descriptor arch.Descriptor, level int, tracer regalloc.Tracer) (*Result, error) {
	if tracer == nil {
		tracer = regalloc.NoopTracer{}
	}

	fn = optimizer.ForLevel(level).Run(fn)

	reloads := spillFunction(fn, descriptor, tracer)

	phi.Destructure(fn)

	classes := regalloc.NewPhiClasses[arch.Register]()
	mapping, err := regalloc.Allocate(fn, descriptor, classes, tracer)
	if err != nil {
		return nil, err
	}

	plan := frame.Compute(fn, mapping.Registers(), descriptor)

	return &Result{Function: fn, Mapping: mapping, Frame: plan, Reloads: reloads}, nil
}

// spillFunction walks fn's blocks in fn.Chain() order - the same
// decomposition dominance and interference are built from - threading a
// single currentVars/spilled pair across the whole function so a variable
// spilled in one block is recognized as already spilled when the next
// block runs. Blocks inside a loop body get a tightened register budget
// from regalloc.LoopMaxPressure rather than the descriptor's ambient one.
func spillFunction(fn *ir.FunctionDefinition, descriptor arch.Descriptor, tracer regalloc.Tracer) *regalloc.ReloadList {
	base := descriptor.Config()
	loopBudget := collectLoopBudgets(fn, base)

	list := regalloc.NewReloadList()
	currentVars := map[ir.VarKey]ir.Variable{}
	spilled := map[ir.VarKey]ir.Variable{}
	renamed := map[ir.VarKey]ir.Variable{}

	for _, node := range fn.Chain().Flatten().All() {
		block := fn.Block(node.ID())
		renameBlock(block, renamed)

		config := base
		if tight, ok := loopBudget[block.ID()]; ok {
			config = tight
		}

		reloads := regalloc.SpillBlock(block, currentVars, spilled, config, nil)
		if len(reloads) == 0 {
			tracer.State(fn)
			continue
		}
		list.Add(block.ID(), reloads)
		applyReloads(block, reloads, renamed, tracer)
		tracer.State(fn)
	}

	return list
}

// applyReloads rewrites a block's own statements so that every use
// following a reload reads the reloaded value rather than the pre-spill
// variable, and records each reload's final generation in renamed so later
// blocks pick it up too. SpillBlock never does this rewriting itself - it
// only inserts the reload assignment - so this is the caller's job per its
// own doc comment.
func applyReloads(block *ir.BasicBlock, reloads []regalloc.Reload, renamed map[ir.VarKey]ir.Variable, tracer regalloc.Tracer) {
	byKey := map[ir.VarKey][]regalloc.Reload{}
	for _, r := range reloads {
		byKey[r.Previous.Key()] = append(byKey[r.Previous.Key()], r)
		tracer.Spill(r.Previous)
	}
	for _, group := range byKey {
		for i, r := range group {
			end := len(block.Statements)
			if i+1 < len(group) {
				end = group[i+1].Position + 1
			}
			renameRange(block, r.Previous, r.Var, r.Position+1, end)
		}
		renamed[group[len(group)-1].Previous.Key()] = group[len(group)-1].Var
	}
}

// collectLoopBudgets walks fn's raw chain (not flattened) looking for
// CycleEntry nodes, and for each loop records a tightened RegisterConfig -
// never exceeding base - for every block in the loop body plus its head.
func collectLoopBudgets(fn *ir.FunctionDefinition, base arch.RegisterConfig) map[ir.BlockID]arch.RegisterConfig {
	budgets := map[ir.BlockID]arch.RegisterConfig{}
	walkLoops(fn.Chain(), fn, base, budgets)
	return budgets
}

func walkLoops[N graph.Node[ir.BlockID]](c *graph.Chain[ir.BlockID, N], fn *ir.FunctionDefinition, base arch.RegisterConfig, budgets map[ir.BlockID]arch.RegisterConfig) {
	for {
		entry, ok := c.Next()
		if !ok {
			return
		}
		switch e := entry.(type) {
		case graph.BranchedEntry[ir.BlockID, N]:
			walkLoops(e.Left, fn, base, budgets)
			walkLoops(e.Right, fn, base, budgets)
		case graph.CycleEntry[ir.BlockID, N]:
			loopBlocks := map[ir.BlockID]bool{e.Head: true}
			for _, n := range e.Inner.Duplicate().Flatten().All() {
				loopBlocks[n.ID()] = true
			}

			head := fn.Block(e.Head)
			need := regalloc.LoopMaxPressure(head, e.Inner.Duplicate(), fn.Block, usedOutside(fn, loopBlocks))
			tight := tighten(base, need)

			for id := range loopBlocks {
				budgets[id] = tight
			}
			walkLoops(e.Inner, fn, base, budgets)
		}
	}
}

// usedOutside reports, for a variable defined or carried across a loop,
// whether anything outside the loop's own blocks reads it - the signal
// LoopMaxPressure needs to decide whether a loop-carried value must stay
// live past the loop rather than dying with it.
func usedOutside(fn *ir.FunctionDefinition, loopBlocks map[ir.BlockID]bool) func(ir.Variable) bool {
	return func(v ir.Variable) bool {
		for _, b := range fn.Blocks() {
			if loopBlocks[b.ID()] {
				continue
			}
			for _, s := range b.Statements {
				for _, u := range s.UsedVariables() {
					if u.Key() == v.Key() {
						return true
					}
				}
			}
		}
		return false
	}
}

// tighten clamps need to never exceed the hardware budget base, per class.
func tighten(base, need arch.RegisterConfig) arch.RegisterConfig {
	out := need
	if out.GeneralPurposeCount > base.GeneralPurposeCount {
		out.GeneralPurposeCount = base.GeneralPurposeCount
	}
	if out.FloatingPointCount > base.FloatingPointCount {
		out.FloatingPointCount = base.FloatingPointCount
	}
	return out
}
