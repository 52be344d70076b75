package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/ir"
)

func TestDestructureInsertsCopiesOnBothEdges(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	cond := fn.Vars.Fresh("cond", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: cond, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.JumpTrue{Cond: cond, Target: left})
	entry.Push(ir.Jump{Target: right})

	leftVal := fn.Vars.Fresh("l", ir.Int(ir.I32))
	fn.Block(left).Push(ir.Assignment{Target: leftVal, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 10)}})
	fn.Block(left).Push(ir.Jump{Target: join})

	rightVal := fn.Vars.Fresh("r", ir.Int(ir.I32))
	fn.Block(right).Push(ir.Assignment{Target: rightVal, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 20)}})
	fn.Block(right).Push(ir.Jump{Target: join})

	merged := fn.Vars.Fresh("m", ir.Int(ir.I32))
	fn.Block(join).Push(ir.Assignment{Target: merged, Value: ir.PhiValue{Sources: []ir.PhiEntry{
		{Pred: left, Var: leftVal},
		{Pred: right, Var: rightVal},
	}}})
	fn.Block(join).Push(ir.Return{Var: &merged})

	fn.Link(fn.Entry)
	fn.Link(left)
	fn.Link(right)

	Destructure(fn)

	leftStmts := fn.Block(left).Statements
	require.Len(t, leftStmts, 3)
	copyToLeft, ok := leftStmts[1].(ir.Assignment)
	require.True(t, ok)
	assert.Equal(t, "m", copyToLeft.Target.Name)

	rightStmts := fn.Block(right).Statements
	require.Len(t, rightStmts, 3)
	copyToRight, ok := rightStmts[1].(ir.Assignment)
	require.True(t, ok)
	assert.Equal(t, "m", copyToRight.Target.Name)

	joinStmts := fn.Block(join).Statements
	require.Len(t, joinStmts, 1)
	_, isReturn := joinStmts[0].(ir.Return)
	assert.True(t, isReturn)
}
