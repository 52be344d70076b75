package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
)

func TestSpillBlockSpillsExcessPressure(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	a := fn.Vars.Fresh("a", ir.Int(ir.I32))
	b := fn.Vars.Fresh("b", ir.Int(ir.I32))
	c := fn.Vars.Fresh("c", ir.Int(ir.I32))

	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	entry.Push(ir.Assignment{Target: c, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b)}}})
	entry.Push(ir.Return{Var: &c})

	current := map[ir.VarKey]ir.Variable{}
	spilled := map[ir.VarKey]ir.Variable{}
	config := arch.RegisterConfig{GeneralPurposeCount: 1, FloatingPointCount: 1}

	reloads := SpillBlock(entry, current, spilled, config, nil)

	assert.Greater(t, len(entry.Statements), 4, "spilling should have inserted save/reload statements")
	_ = reloads
}

func TestSpillBlockUnderBudgetIsNoop(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	r := fn.Vars.Fresh("r", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: r, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Return{Var: &r})

	current := map[ir.VarKey]ir.Variable{}
	spilled := map[ir.VarKey]ir.Variable{}
	config := arch.RegisterConfig{GeneralPurposeCount: 8, FloatingPointCount: 8}

	reloads := SpillBlock(entry, current, spilled, config, nil)

	assert.Empty(t, reloads)
	assert.Len(t, entry.Statements, 2)
}

func TestAllocateAssignsGeneralPurposeRegisterToIntVariable(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	a := fn.Vars.Fresh("a", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Return{Var: &a})

	mapping, err := Allocate(fn, arch.AArch64Mac, nil, nil)
	require.NoError(t, err)

	reg, ok := mapping.Register(a)
	require.True(t, ok)
	assert.Equal(t, arch.GeneralPurpose, reg.Class)
}

func TestAllocateFailsWhenRegistersExhausted(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	tiny := arch.Descriptor{
		Name:        "tiny",
		PointerSize: 4,
		GPRegisters: []arch.Register{{Name: "r0", Class: arch.GeneralPurpose}},
	}

	a := fn.Vars.Fresh("a", ir.Int(ir.I32))
	b := fn.Vars.Fresh("b", ir.Int(ir.I32))
	c := fn.Vars.Fresh("c", ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: a, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 1)}})
	entry.Push(ir.Assignment{Target: b, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 2)}})
	entry.Push(ir.Assignment{Target: c, Value: ir.ExpressionValue{Expr: ir.BinaryOp{Op: ir.Add, Left: ir.VarOperand(a), Right: ir.VarOperand(b)}}})
	entry.Push(ir.Return{Var: &c})

	_, err := Allocate(fn, tiny, nil, nil)
	assert.Error(t, err)
}

func TestPhiClassesCoalesceByName(t *testing.T) {
	classes := NewPhiClasses[arch.Register]()
	v0 := ir.Variable{Name: "i", Generation: 0, Type: ir.Int(ir.I32)}
	v1 := ir.Variable{Name: "i", Generation: 1, Type: ir.Int(ir.I32)}

	classes.Set(v0, arch.Register{Name: "x3", Class: arch.GeneralPurpose})

	reg, ok := classes.Get(v1)
	require.True(t, ok)
	assert.Equal(t, "x3", reg.Name)
}

func TestReloadListGroupsByBlock(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	v := fn.Vars.Fresh("v", ir.Int(ir.I32))

	list := NewReloadList()
	list.Add(fn.Entry, []Reload{{Var: v, Previous: v, Position: 0}})
	list.Add(fn.Entry, []Reload{{Var: v, Previous: v, Position: 3}})

	got, ok := list.Get(fn.Entry)
	require.True(t, ok)
	assert.Len(t, got, 2)
	assert.Equal(t, []ir.BlockID{fn.Entry}, list.Blocks())
}
