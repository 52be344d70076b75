package regalloc

import (
	"fmt"

	"cprizm/internal/arch"
	"cprizm/internal/dominance"
	"cprizm/internal/interference"
	"cprizm/internal/ir"
)

// Mapping is the result of coloring: every variable that survived spilling
// assigned to one physical register.
type Mapping struct {
	assignment map[ir.VarKey]arch.Register
}

// Register looks up the physical register assigned to v.
func (m Mapping) Register(v ir.Variable) (arch.Register, bool) {
	r, ok := m.assignment[v.Key()]
	return r, ok
}

// Registers returns every distinct physical register this mapping actually
// assigned, for the frame planner to decide which callee-saved registers a
// function must preserve.
func (m Mapping) Registers() []arch.Register {
	seen := make(map[string]bool, len(m.assignment))
	var out []arch.Register
	for _, r := range m.assignment {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}

// Allocate performs graph-coloring register allocation over fn, which must
// already have been spilled down to the target's register budget (see
// SpillBlock). It builds the interference graph, walks fn's dominance tree
// in post order, and greedily assigns each variable the first register of
// its class not already used by an interfering neighbor, coalescing phi
// families onto a single register via classes.
//
// Grounded on lib.rs's RegisterMapping::allocate; the algorithm is the
// paper-derived postorder-greedy-coloring this package itself
// documents as coming from Hack & Goos, "Optimal Register Allocation for
// SSA-form Programs in Polynomial Time".
func Allocate(fn *ir.FunctionDefinition, descriptor arch.Descriptor, classes *PhiClasses[arch.Register], tracer Tracer) (Mapping, error) {
	if tracer == nil {
		tracer = NoopTracer{}
	}

	graph := interference.Build(fn)
	tree := dominance.Build(fn)

	registers := append(append([]arch.Register(nil), descriptor.GPRegisters...), descriptor.FPRegisters...)

	mapping := Mapping{assignment: make(map[ir.VarKey]arch.Register)}

	for _, node := range dominance.PostOrder(tree) {
		v := node.Var
		if _, already := mapping.assignment[v.Key()]; already {
			continue
		}
		if classes != nil {
			if reg, ok := classes.Get(v); ok {
				mapping.assignment[v.Key()] = reg
				continue
			}
		}

		used := make(map[string]struct{})
		for _, n := range graph.Neighbors(v) {
			if reg, ok := mapping.assignment[n.Key()]; ok {
				used[reg.Name] = struct{}{}
			}
		}

		var chosen *arch.Register
		for i := range registers {
			r := registers[i]
			if r.Class != classForType(v.Type) {
				continue
			}
			if _, taken := used[r.Name]; taken {
				continue
			}
			chosen = &r
			break
		}
		if chosen == nil {
			tracer.State(fn)
			return Mapping{}, fmt.Errorf("regalloc: no %s register available for %s (target %s)", classForType(v.Type), v.String(), descriptor.Name)
		}

		mapping.assignment[v.Key()] = *chosen
		if classes != nil {
			classes.Set(v, *chosen)
		}
	}

	return mapping, nil
}

func classForType(t ir.Type) arch.RegisterClass {
	if t.IsFloat() {
		return arch.FloatingPoint
	}
	return arch.GeneralPurpose
}
