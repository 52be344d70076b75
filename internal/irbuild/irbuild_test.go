package irbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
	"cprizm/internal/cst"
	"cprizm/internal/ir"
	"cprizm/internal/semantic"
)

func buildProgram(t *testing.T, src string) *ir.Program {
	t.Helper()
	unit, errs, err := cst.ParseSource("test.c", src)
	require.NoError(t, err)
	require.Empty(t, errs)

	checked := semantic.Check(unit)
	require.False(t, checked.HasErrors())

	prog, err := Build(unit, checked, arch.AArch64Mac)
	require.NoError(t, err)
	return prog
}

func TestBuildLowersAStraightLineFunction(t *testing.T) {
	prog := buildProgram(t, "int add(int a, int b) {\n  return a + b;\n}\n")

	fn, ok := prog.Functions["add"]
	require.True(t, ok)
	assert.Len(t, fn.Arguments, 2)

	entry := fn.Block(fn.Entry)
	_, isReturn := entry.Terminator().(ir.Return)
	assert.True(t, isReturn)
}

func TestBuildInsertsPhiAtIfElseMerge(t *testing.T) {
	src := `int classify(int x) {
  int r;
  if (x < 0) {
    r = -1;
  } else {
    r = 1;
  }
  return r;
}
`
	prog := buildProgram(t, src)
	fn := prog.Functions["classify"]

	foundPhi := false
	for _, b := range fn.Blocks() {
		for _, p := range b.Phis() {
			_ = p
			foundPhi = true
		}
	}
	assert.True(t, foundPhi, "an if/else merge assigning the same name on both arms should produce a phi")
}

func TestBuildMarksLoopBackEdge(t *testing.T) {
	src := `int sum(int n) {
  int total = 0;
  int i = 0;
  while (i < n) {
    total = total + i;
    i = i + 1;
  }
  return total;
}
`
	prog := buildProgram(t, src)
	fn := prog.Functions["sum"]

	found := false
	for _, b := range fn.Blocks() {
		switch t := b.Terminator().(type) {
		case ir.Jump:
			if t.Meta == ir.JumpLoopBackEdge {
				found = true
			}
		case ir.JumpTrue:
			if t.Meta == ir.JumpLoopBackEdge {
				found = true
			}
		}
	}
	assert.True(t, found, "a while loop's continuation edge should be tagged as a loop back-edge")
}

func TestBuildRejectsUnresolvedSemanticErrors(t *testing.T) {
	unit, errs, err := cst.ParseSource("test.c", "int f() {\n  return y;\n}\n")
	require.NoError(t, err)
	require.Empty(t, errs)

	checked := semantic.Check(unit)
	require.True(t, checked.HasErrors())

	_, err = Build(unit, checked, arch.AArch64Mac)
	assert.Error(t, err)
}
