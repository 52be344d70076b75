package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
	"cprizm/internal/regalloc"
)

func straightLineFunction() *ir.FunctionDefinition {
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
	return fn
}

func TestFunctionProducesAMappingAndFrameForEveryVariable(t *testing.T) {
	fn := straightLineFunction()

	result, err := Function(fn, arch.SH4AFxcg50, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	entry := result.Function.Block(result.Function.Entry)
	last, ok := entry.Terminator().(ir.Return)
	require.True(t, ok)
	require.NotNil(t, last.Var)

	_, assigned := result.Mapping.Register(*last.Var)
	assert.True(t, assigned)
}

func TestFunctionSpillsUnderATinyRegisterBudget(t *testing.T) {
	// a, b and c are all live when c is defined.
	fn := ir.NewFunctionDefinition("add3", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	a := fn.Vars.Fresh("a", ir.Int(ir.I32))
	b := fn.Vars.Fresh("b", ir.Int(ir.I32))
	c := fn.Vars.Fresh("c", ir.Int(ir.I32))
	ab := fn.Vars.Fresh("ab", ir.Int(ir.I32))
	sum := fn.Vars.Fresh("sum", ir.Int(ir.I32))
	for i, v := range []ir.Variable{a, b, c} {
		entry.Push(ir.Assignment{Target: v, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), int64(i+1))}})
	}
	entry.Push(ir.Assignment{Target: ab, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b)}}})
	entry.Push(ir.Assignment{Target: sum, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(ab), Right: ir.VarOperand(c)}}})
	entry.Push(ir.Return{Var: &sum})
	fn.Link(fn.Entry)

	tight := arch.Descriptor{
		Name:        "tiny",
		PointerSize: 4,
		StackAlign:  4,
		GPRegisters: []arch.Register{{Name: "r0", Class: arch.GeneralPurpose}, {Name: "r1", Class: arch.GeneralPurpose}},
	}

	result, err := Function(fn, tight, 0, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Reloads.Blocks(), "a two-register budget over a three-live-variable block should force at least one spill/reload")
}

func TestSpillFunctionThreadsRenamingAcrossBlocks(t *testing.T) {
	fn := ir.NewFunctionDefinition("chain", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	next := fn.NewBlock("next")

	x := fn.Vars.Fresh("x", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: x, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 7)}})
	entry.Push(ir.Jump{Target: next})

	fn.Block(next).Push(ir.Return{Var: &x})
	fn.Link(fn.Entry)
	fn.Link(next)

	tiny := arch.Descriptor{
		Name:        "tiny",
		PointerSize: 4,
		StackAlign:  4,
		GPRegisters: []arch.Register{{Name: "r0", Class: arch.GeneralPurpose}, {Name: "r1", Class: arch.GeneralPurpose}},
	}

	list := spillFunction(fn, tiny, regalloc.NoopTracer{})
	assert.NotNil(t, list)

	ret, ok := fn.Block(next).Terminator().(ir.Return)
	require.True(t, ok)
	require.NotNil(t, ret.Var)
	assert.Equal(t, "x", ret.Var.Name)
}
