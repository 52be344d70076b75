package interference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cprizm/internal/ir"
)

func TestOverlappingLiveRangesInterfere(t *testing.T) {
	f := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := f.Block(f.Entry)

	a := f.Vars.Fresh("a", ir.Int(ir.I32))
	b := f.Vars.Fresh("b", ir.Int(ir.I32))
	sum := f.Vars.Fresh("sum", ir.Int(ir.I32))

	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	entry.Push(ir.Assignment{Target: sum, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b)}}})
	entry.Push(ir.Return{Var: &sum})

	g := Build(f)
	assert.True(t, g.Interferes(a, b), "a and b are both live when sum is computed")
	assert.False(t, g.Interferes(a, sum), "sum is defined after a's last use")
}

func TestNonOverlappingDoNotInterfere(t *testing.T) {
	f := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := f.Block(f.Entry)

	a := f.Vars.Fresh("a", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	useA := f.Vars.Fresh("useA", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: useA, Value: ir.VariableValue{Var: a}})

	b := f.Vars.Fresh("b", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	entry.Push(ir.Return{Var: &b})

	g := Build(f)
	assert.False(t, g.Interferes(a, b), "a's last use precedes b's definition")
}
