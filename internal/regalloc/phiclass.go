package regalloc

import "cprizm/internal/ir"

// PhiClasses groups every generation of a source name into one coloring
// class so all of them end up in the same physical register, regardless of
// how many times the variable factory has bumped its generation. Grounded
// on phi_classes.rs's Groups, keyed the same way (by variable name) rather
// than by VarKey so generations coalesce by construction.
type PhiClasses[R any] struct {
	groups map[string]R
}

func NewPhiClasses[R any]() *PhiClasses[R] {
	return &PhiClasses[R]{groups: make(map[string]R)}
}

func (g *PhiClasses[R]) Get(v ir.Variable) (R, bool) {
	r, ok := g.groups[v.Name]
	return r, ok
}

func (g *PhiClasses[R]) Set(v ir.Variable, reg R) {
	g.groups[v.Name] = reg
}
