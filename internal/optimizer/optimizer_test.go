package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/ir"
)

func TestDeadCodeRemovesRedundantAssign(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	dead := fn.Vars.Fresh("dead", ir.Int(ir.I32))
	r := fn.Vars.Fresh("r", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: dead, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 99)}})
	entry.Push(ir.Assignment{Target: r, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Return{Var: &r})

	DeadCode{}.Run(fn)

	require.Len(t, entry.Statements, 2)
	assert.Equal(t, "r", entry.Statements[0].(ir.Assignment).Target.Name)
}

func TestDeadCodeIdempotent(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	dead := fn.Vars.Fresh("dead", ir.Int(ir.I32))
	r := fn.Vars.Fresh("r", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: dead, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 99)}})
	entry.Push(ir.Assignment{Target: r, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Return{Var: &r})

	once := DeadCode{}.Run(fn)
	twice := DeadCode{}.Run(once)
	assert.Equal(t, len(once.Block(once.Entry).Statements), len(twice.Block(twice.Entry).Statements))
}

func TestConstantPropFoldsArithmetic(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	x := fn.Vars.Fresh("x", ir.Int(ir.I32))
	y := fn.Vars.Fresh("y", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: x, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 3)}})
	entry.Push(ir.Assignment{Target: y, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(x), Right: ir.ConstOperand(ir.IntConstant(ir.Int(ir.I32), 4))}}})
	entry.Push(ir.Return{Var: &y})

	ConstantProp{}.Run(fn)

	yAssign := entry.Statements[1].(ir.Assignment)
	cv, ok := yAssign.Value.(ir.ConstantValue)
	require.True(t, ok, "x+4 should fold to a constant once x is known to be 3")
	assert.Equal(t, int64(7), cv.Constant.IntValue)
}

func TestOLevelZeroIsIdentity(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	r := fn.Vars.Fresh("r", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: r, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Return{Var: &r})

	before := len(entry.Statements)
	ForLevel(0).Run(fn)
	assert.Equal(t, before, len(entry.Statements))
}

func TestBlockMergerFoldsUnconditionalJump(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	next := fn.NewBlock("next")
	entry.Push(ir.Jump{Target: next})
	r := fn.Vars.Fresh("r", ir.Int(ir.I32))
	fn.Block(next).Push(ir.Assignment{Target: r, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	fn.Block(next).Push(ir.Return{Var: &r})
	fn.Link(fn.Entry)

	BlockMerger{}.Run(fn)

	assert.Len(t, entry.Statements, 2)
	assert.Empty(t, fn.Block(next).Statements)
}
