package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/ir"
)

func TestComputePlacesLocalsAndAllocs(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	total := fn.Vars.Fresh("total", ir.Int(ir.I64))
	buf := fn.Vars.Fresh("buf", ir.PointerTo(ir.Int(ir.I8)))

	entry.Push(ir.Assignment{Target: total, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I64), 0)}})
	entry.Push(ir.Assignment{Target: buf, Value: ir.ExpressionValue{Expr: ir.StackAlloc{Size: 64, Align: 16}}})
	entry.Push(ir.Return{Var: &total})

	used := []arch.Register{{Name: "x19", Class: arch.GeneralPurpose}}

	plan := Compute(fn, used, arch.AArch64Mac)

	_, hasReg := plan.CalleeSavedOffsets["x19"]
	require.True(t, hasReg)

	totalOffset, ok := plan.Offset("total")
	require.True(t, ok)
	assert.Equal(t, 0, totalOffset%8, "I64 local must be 8-byte aligned")

	allocOffset, ok := plan.AllocOffsets[buf.Key()]
	require.True(t, ok)
	assert.Equal(t, 0, allocOffset%16, "StackAlloc with align 16 must land on a 16-byte boundary")

	assert.Equal(t, 0, plan.TotalSize%arch.AArch64Mac.StackAlign)
}

func TestComputeSkipsTemporaries(t *testing.T) {
	fn := ir.NewFunctionDefinition("main", nil, ir.Int(ir.I32))
	entry := fn.Block(fn.Entry)

	tmp := fn.Vars.Tmp(ir.Int(ir.I32))
	entry.Push(ir.Assignment{Target: tmp, Value: ir.ConstantValue{Constant: ir.IntConstant(ir.Int(ir.I32), 5)}})
	entry.Push(ir.Return{Var: &tmp})

	plan := Compute(fn, nil, arch.AArch64Mac)

	_, ok := plan.Offset(tmp.Name)
	assert.False(t, ok, "temporaries must not get a named stack slot")
}
