package sh4a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/frame"
	"cprizm/internal/ir"
	"cprizm/internal/regalloc"
)

func TestLowerEmitsOneBlockPerBasicBlock(t *testing.T) {
	fn := ir.NewFunctionDefinition("add", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	a := fn.Vars.Fresh("a", ir.Int(ir.I32))
	b := fn.Vars.Fresh("b", ir.Int(ir.I32))
	sum := fn.Vars.Fresh("sum", ir.Int(ir.I32))

	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	entry.Push(ir.Assignment{Target: sum, Value: ir.ExpressionValue{Expr: ir.BinaryOp{
		Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b),
	}}})
	entry.Push(ir.Return{Var: &sum})

	fn.Link(fn.Entry)

	mapping, err := regalloc.Allocate(fn, arch.SH4AFxcg50, regalloc.NewPhiClasses[arch.Register](), regalloc.NoopTracer{})
	require.NoError(t, err)

	plan := frame.Compute(fn, nil, arch.SH4AFxcg50)

	blocks := Lower(fn, mapping, plan)
	require.Len(t, blocks, 1)
	assert.NotEmpty(t, blocks[0].Instructions)

	last := blocks[0].Instructions[len(blocks[0].Instructions)-1]
	_, isNop := last.(Nop)
	_, isReturn := blocks[0].Instructions[len(blocks[0].Instructions)-2].(Return)
	assert.True(t, isReturn || isNop)
}

func TestDivideUnrollsDiv0uAndThirtyTwoDiv1Steps(t *testing.T) {
	l := &Lowerer{}
	instrs := l.divide(GP(1), GP(2), GP(3))

	div0uCount, div1Count := 0, 0
	for _, i := range instrs {
		switch i.(type) {
		case Div0u:
			div0uCount++
		case Div1:
			div1Count++
		}
	}
	assert.Equal(t, 1, div0uCount)
	assert.Equal(t, 32, div1Count)
}
