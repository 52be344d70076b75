package dominance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/ir"
)

func TestPostOrderLinear(t *testing.T) {
	f := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := f.Block(f.Entry)
	x := f.Vars.Fresh("x", ir.Int(ir.I32))
	y := f.Vars.Fresh("y", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: x, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Assignment{Target: y, Value: ir.VariableValue{Var: x}})
	entry.Push(ir.Return{Var: &y})

	tree := Build(f)
	order := PostOrder(tree)
	require.Len(t, order, 2)
	assert.Equal(t, "y", order[0].Var.Name)
	assert.Equal(t, "x", order[1].Var.Name)
	assert.Same(t, order[1], order[0].Parent)
}

func TestPostOrderBranchSiblings(t *testing.T) {
	f := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := f.Block(f.Entry)
	thenID := f.NewBlock("then")
	elseID := f.NewBlock("else")
	joinID := f.NewBlock("join")

	cond := f.Vars.Fresh("cond", ir.Int(ir.I8))
	entry.Push(ir.JumpTrue{Cond: cond, Target: thenID})
	entry.Push(ir.Jump{Target: elseID})

	a := f.Vars.Fresh("a", ir.Int(ir.I32))
	f.Block(thenID).Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	f.Block(thenID).Push(ir.Jump{Target: joinID})

	b := f.Vars.Fresh("b", ir.Int(ir.I32))
	f.Block(elseID).Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	f.Block(elseID).Push(ir.Jump{Target: joinID})

	r := f.Vars.Fresh("r", ir.Int(ir.I32))
	f.Block(joinID).Push(ir.Return{Var: &r})

	tree := Build(f)
	order := PostOrder(tree)

	names := map[string]*Node{}
	for _, n := range order {
		names[n.Var.Name] = n
	}
	require.Contains(t, names, "a")
	require.Contains(t, names, "b")
	assert.Same(t, tree.Root, names["a"].Parent, "both branch sides should attach beneath the shared parent")
	assert.Same(t, tree.Root, names["b"].Parent)
}
