package regalloc

import (
	"cprizm/internal/arch"
	"cprizm/internal/graph"
	"cprizm/internal/ir"
)

// typedPressure tracks, as a loop body is walked statement by statement,
// how many live values of each register class are simultaneously needed,
// recording the high-water mark per class.
type typedPressure struct {
	inner map[ir.VarKey]int
	class map[ir.VarKey]bool // true => float
	maxGP int
	maxFP int
}

func newTypedPressure() *typedPressure {
	return &typedPressure{inner: make(map[ir.VarKey]int), class: make(map[ir.VarKey]bool)}
}

func (p *typedPressure) define(v ir.Variable, uses int) {
	if uses == 0 {
		return
	}
	key := v.Key()
	p.inner[key] = uses
	p.class[key] = v.Type.IsFloat()

	gp, fp := 0, 0
	for k := range p.inner {
		if p.class[k] {
			fp++
		} else {
			gp++
		}
	}
	if gp > p.maxGP {
		p.maxGP = gp
	}
	if fp > p.maxFP {
		p.maxFP = fp
	}
}

func (p *typedPressure) used(v ir.Variable) {
	key := v.Key()
	count, ok := p.inner[key]
	if !ok {
		return
	}
	count--
	if count <= 0 {
		delete(p.inner, key)
		delete(p.class, key)
	} else {
		p.inner[key] = count
	}
}

// LoopMaxPressure estimates the register budget a loop body needs: the
// high-water mark of simultaneously-live general-purpose and
// floating-point values across the head block plus the loop's inner chain,
// counting one extra use for any variable outerUse reports as read after
// the loop. resolve maps a chain node back to its concrete block; it exists
// because the node type returned by ir.FunctionDefinition.Chain is an
// unexported adapter. Grounded on spilling/loop_max_pressure.rs's
// max_pressure.
func LoopMaxPressure[N graph.Node[ir.BlockID]](head *ir.BasicBlock, inner *graph.Chain[ir.BlockID, N], resolve func(ir.BlockID) *ir.BasicBlock, outerUse func(ir.Variable) bool) arch.RegisterConfig {
	innerBlocks := make([]*ir.BasicBlock, 0)
	for _, n := range inner.Duplicate().Flatten().All() {
		innerBlocks = append(innerBlocks, resolve(n.ID()))
	}

	definedInner := make(map[ir.VarKey]struct{})
	for _, b := range innerBlocks {
		for _, s := range b.Statements {
			if d, ok := s.DefinedVariable(); ok {
				definedInner[d.Key()] = struct{}{}
			}
		}
	}

	totalUses := make(map[ir.VarKey]int)
	byKey := make(map[ir.VarKey]ir.Variable)
	count := func(s ir.Statement) {
		for _, v := range s.UsedVariables() {
			totalUses[v.Key()]++
			byKey[v.Key()] = v
		}
	}
	for _, s := range head.Statements {
		count(s)
	}
	for _, b := range innerBlocks {
		for _, s := range b.Statements {
			count(s)
		}
	}

	for key, v := range byKey {
		if outerUse(v) {
			totalUses[key]++
		}
	}

	p := newTypedPressure()
	for key, v := range byKey {
		if _, isInner := definedInner[key]; isInner {
			continue
		}
		p.define(v, totalUses[key])
	}

	for _, b := range innerBlocks {
		for _, s := range b.Statements {
			for _, v := range s.UsedVariables() {
				p.used(v)
			}
			if d, ok := s.DefinedVariable(); ok {
				p.define(d, totalUses[d.Key()])
			}
		}
	}

	return arch.RegisterConfig{GeneralPurposeCount: p.maxGP, FloatingPointCount: p.maxFP}
}
