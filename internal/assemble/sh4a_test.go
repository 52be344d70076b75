package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/codegen/sh4a"
)

func TestInstructionSizeMatchesPseudoOpCosts(t *testing.T) {
	assert.Equal(t, 1, InstructionSize(sh4a.Nop{}))
	assert.Equal(t, 2, InstructionSize(sh4a.Return{}))
	assert.Equal(t, 6, InstructionSize(sh4a.MovImmR{}))
	assert.Equal(t, 7, InstructionSize(sh4a.JumpLabel{}))
	assert.Equal(t, 9, InstructionSize(sh4a.BranchTrueLabel{}))
}

func TestAssembleProducesNonEmptyStreamWithJumpToMain(t *testing.T) {
	main := sh4a.Block{
		Name: "main_0",
		Instructions: []sh4a.Instruction{
			sh4a.MovIR{Immediate: 5, Dest: sh4a.GP(0)},
			sh4a.Return{},
		},
	}

	out := Assemble("main_0", []sh4a.Block{main})
	require.NotEmpty(t, out)

	// start block is a single JumpLabel pseudo-op: 7 halfwords = 14 bytes,
	// placed at offset 0.
	assert.GreaterOrEqual(t, len(out), 14)
}

func TestAssembleIsDeterministic(t *testing.T) {
	blocks := []sh4a.Block{{
		Name:         "fn_0",
		Instructions: []sh4a.Instruction{sh4a.Nop{}, sh4a.Return{}},
	}}

	first := Assemble("fn_0", blocks)
	second := Assemble("fn_0", blocks)
	assert.Equal(t, first, second)
}
