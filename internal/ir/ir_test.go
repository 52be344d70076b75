package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableFactoryMonotonic(t *testing.T) {
	f := NewVariableFactory()
	x0 := f.Fresh("x", Int(I32))
	assert.Equal(t, 0, x0.Generation)

	x1 := x0.NextGen()
	assert.Equal(t, 1, x1.Generation)

	x2 := f.Fresh("x", Int(I32))
	assert.Equal(t, 2, x2.Generation, "Fresh on an existing name must keep advancing the shared counter")

	y0 := f.Fresh("y", Int(I32))
	assert.Equal(t, 0, y0.Generation, "a different name gets its own counter")
}

func TestVariableEquality(t *testing.T) {
	f := NewVariableFactory()
	x0 := f.Fresh("x", Int(I32))
	x0b := x0
	assert.True(t, x0.Equal(x0b))

	x1 := x0.NextGen()
	assert.False(t, x0.Equal(x1))
}

func TestBlockSuccessorsReturn(t *testing.T) {
	f := NewFunctionDefinition("main", nil, Int(I32))
	b := f.Block(f.Entry)
	r := f.Vars.Fresh("r", Int(I32))
	b.Push(Assignment{Target: r, Value: ConstantValue{Constant: IntConstant(Int(I32), 0)}})
	b.Push(Return{Var: &r})
	assert.Empty(t, b.Successors())
}

func TestBlockSuccessorsJumpTrueFallthrough(t *testing.T) {
	f := NewFunctionDefinition("main", nil, Int(I32))
	entry := f.Block(f.Entry)
	thenID := f.NewBlock("then")
	elseID := f.NewBlock("else")

	cond := f.Vars.Fresh("cond", Int(I8))
	entry.Push(JumpTrue{Cond: cond, Target: thenID})
	entry.Push(Jump{Target: elseID})

	succs := entry.Successors()
	require.Len(t, succs, 2)
	assert.Equal(t, elseID, succs[0], "fall-through edge (branch not taken) must come first")
	assert.Equal(t, thenID, succs[1])
}

func TestFunctionLinkPopulatesPredecessors(t *testing.T) {
	f := NewFunctionDefinition("main", nil, Int(I32))
	entry := f.Block(f.Entry)
	next := f.NewBlock("next")
	entry.Push(Jump{Target: next})
	f.Link(f.Entry)

	assert.Equal(t, []BlockID{f.Entry}, f.Block(next).Predecessors)
}

func TestFlattenVisitsEveryBlockOnce(t *testing.T) {
	f := NewFunctionDefinition("main", nil, Int(I32))
	entry := f.Block(f.Entry)
	thenID := f.NewBlock("then")
	elseID := f.NewBlock("else")
	joinID := f.NewBlock("join")

	cond := f.Vars.Fresh("cond", Int(I8))
	entry.Push(JumpTrue{Cond: cond, Target: thenID})
	entry.Push(Jump{Target: elseID})
	f.Block(thenID).Push(Jump{Target: joinID})
	f.Block(elseID).Push(Jump{Target: joinID})
	r := f.Vars.Fresh("r", Int(I32))
	f.Block(joinID).Push(Return{Var: &r})

	all := f.Chain().Flatten().All()
	seen := map[BlockID]int{}
	for _, n := range all {
		seen[n.ID()]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "block %d visited %d times", id, count)
	}
	assert.Len(t, all, 4)
}
