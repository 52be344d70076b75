// Package regalloc assigns physical registers to IR variables. It runs in
// two stages: first min-algorithm spilling brings live-variable pressure
// within the target's register budget (spilling/limit.rs, min.rs in the
// source material this package is ported from), then a post-order
// dominance-tree coloring pass assigns concrete registers to whatever
// remains live (lib.rs's RegisterMapping::allocate).
package regalloc

import (
	"sort"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
)

// Reload records a spilled variable being brought back into a register at
// a specific statement position, under a fresh generation so later uses
// read the reload instead of the original definition.
type Reload struct {
	Var      ir.Variable
	Previous ir.Variable
	Position int
}

type minAction int

const (
	actionSpill minAction = iota
	actionReload
)

type pendingAction struct {
	index  int
	var_   ir.Variable
	kind   minAction
	reload ir.Variable
}

// SpillBlock applies the min algorithm to a single basic block, rewriting
// its statement list in place with SaveVariable/Assignment(Unknown) pairs
// marking spills and reloads, and returns the reloads so callers can rename
// later uses. currentVars is the set of variables live on entry to the
// block (mutated to reflect what's live on exit); spilled tracks variables
// already spilled so limit doesn't re-spill them gratuitously.
//
// Grounded on spilling/min.rs's min_algorithm.
func SpillBlock(b *ir.BasicBlock, currentVars, spilled map[ir.VarKey]ir.Variable, config arch.RegisterConfig, acrossDistance map[ir.VarKey]int) []Reload {
	statements := b.Statements

	var spills []pendingAction
	var reloads []pendingAction

	for index, stmt := range statements {
		used := stmt.UsedVariables()
		var freshlyUsed []ir.Variable
		for _, v := range used {
			if _, ok := currentVars[v.Key()]; !ok {
				freshlyUsed = append(freshlyUsed, v)
			}
		}
		for _, v := range freshlyUsed {
			currentVars[v.Key()] = v
			spilled[v.Key()] = v
		}

		def, hasDef := stmt.DefinedVariable()

		spillFirst := limit(currentVars, spilled, statements, index, config, acrossDistance)
		reducedConfig := config
		if hasDef {
			reducedConfig = reduceByOne(config, def)
		}
		spillSecond := limit(currentVars, spilled, statements, index+1, reducedConfig, acrossDistance)

		for _, v := range append(spillFirst, spillSecond...) {
			spills = append(spills, pendingAction{index: index, var_: v, kind: actionSpill})
		}

		if hasDef {
			currentVars[def.Key()] = def
		}

		for _, v := range freshlyUsed {
			reloads = append(reloads, pendingAction{index: index, var_: v, kind: actionReload, reload: v.NextGen()})
		}
	}

	var actions []pendingAction
	actions = append(actions, spills...)
	actions = append(actions, reloads...)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].index < actions[j].index })

	result := make([]Reload, 0, len(reloads))

	// Insert spill/reload statements at their recorded positions, each
	// insertion shifting subsequent positions by one (mirrors the
	// offset-enumerate loop in min_algorithm).
	n := append([]ir.Statement(nil), statements...)
	for offset, a := range actions {
		pos := a.index + offset
		var inserted ir.Statement
		switch a.kind {
		case actionSpill:
			inserted = ir.SaveVariable{Var: a.var_}
		case actionReload:
			inserted = ir.Assignment{Target: a.reload, Value: ir.UnknownValue{}}
			result = append(result, Reload{Var: a.reload, Previous: a.var_, Position: pos})
		}
		n = insertAt(n, pos, inserted)
	}

	b.Statements = n
	return result
}

func insertAt(s []ir.Statement, pos int, v ir.Statement) []ir.Statement {
	if pos >= len(s) {
		return append(s, v)
	}
	s = append(s, nil)
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}

func reduceByOne(c arch.RegisterConfig, defined ir.Variable) arch.RegisterConfig {
	if defined.Type.IsFloat() {
		c.FloatingPointCount--
	} else {
		c.GeneralPurposeCount--
	}
	return c
}
