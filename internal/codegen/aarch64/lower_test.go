package aarch64

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/frame"
	"cprizm/internal/ir"
	"cprizm/internal/regalloc"
)

func TestLowerEmitsLabelPrologueAndEpilogue(t *testing.T) {
	fn := ir.NewFunctionDefinition("add", []ir.Parameter{
		{Name: "a", Type: ir.Int(ir.I32)},
		{Name: "b", Type: ir.Int(ir.I32)},
	}, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	a := ir.Variable{Name: "a", Generation: 0, Type: ir.Int(ir.I32)}
	b := ir.Variable{Name: "b", Generation: 0, Type: ir.Int(ir.I32)}
	sum := fn.Vars.Fresh("sum", ir.Int(ir.I32))

	entry.Push(ir.Assignment{Target: sum, Value: ir.ExpressionValue{Expr: ir.BinaryOp{
		Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b),
	}}})
	entry.Push(ir.Return{Var: &sum})
	fn.Link(fn.Entry)

	mapping, err := regalloc.Allocate(fn, arch.AArch64Mac, regalloc.NewPhiClasses[arch.Register](), regalloc.NoopTracer{})
	require.NoError(t, err)

	plan := frame.Compute(fn, mapping.Registers(), arch.AArch64Mac)

	out := Lower(fn, mapping, plan)

	assert.True(t, strings.HasPrefix(out, ".globl _add\n"))
	assert.Contains(t, out, "_add:")
	assert.Contains(t, out, "ret")
	assert.Contains(t, out, "add ")
}

func TestBlockLabelNormalizesFunctionNameCasing(t *testing.T) {
	assert.Equal(t, blockLabel("myFunc", 3), blockLabel("my_func", 3))
}

func TestBindArgumentsMovesFromABIRegisterWhenDifferentlyAllocated(t *testing.T) {
	fn := ir.NewFunctionDefinition("f", []ir.Parameter{{Name: "a", Type: ir.Int(ir.I32)}}, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)
	a := ir.Variable{Name: "a", Generation: 0, Type: ir.Int(ir.I32)}
	entry.Push(ir.Return{Var: &a})
	fn.Link(fn.Entry)

	mapping, err := regalloc.Allocate(fn, arch.AArch64Mac, regalloc.NewPhiClasses[arch.Register](), regalloc.NoopTracer{})
	require.NoError(t, err)
	plan := frame.Compute(fn, mapping.Registers(), arch.AArch64Mac)

	out := Lower(fn, mapping, plan)

	reg, ok := mapping.Register(a)
	require.True(t, ok)
	if reg.Name != "x0" {
		assert.Contains(t, out, "mov "+reg.Name+", x0")
	}
}
