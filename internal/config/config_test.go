package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprizm/internal/arch"
)

func TestParseDefaultsToAArch64MacAndDerivedOutputPath(t *testing.T) {
	cfg, err := Parse([]string{"prog.c"})
	require.NoError(t, err)

	assert.Equal(t, "prog.c", cfg.Source)
	assert.Equal(t, arch.AArch64Mac.Name, cfg.Target.Name)
	assert.Equal(t, "prog.s", cfg.OutputPath)
	assert.Equal(t, 1, cfg.OptLevel)
	assert.True(t, cfg.EmitDot)
}

func TestParseSelectsFxcg50AndG3AOutput(t *testing.T) {
	cfg, err := Parse([]string{"--target", "fxcg50", "prog.c"})
	require.NoError(t, err)

	assert.Equal(t, arch.SH4AFxcg50.Name, cfg.Target.Name)
	assert.Equal(t, "prog.g3a", cfg.OutputPath)
}

func TestParseRejectsMissingSource(t *testing.T) {
	_, err := Parse([]string{"--target", "fxcg50"})
	assert.Error(t, err)
}

func TestParseRejectsUnknownTarget(t *testing.T) {
	_, err := Parse([]string{"--target", "x86", "prog.c"})
	assert.Error(t, err)
}

func TestParseAppliesArchConfigOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gp_registers: [\"r0\", \"r1\"]\nstack_align: 8\n"), 0o644))

	cfg, err := Parse([]string{"--arch-config", path, "prog.c"})
	require.NoError(t, err)

	require.Len(t, cfg.Target.GPRegisters, 2)
	assert.Equal(t, "r0", cfg.Target.GPRegisters[0].Name)
	assert.Equal(t, 8, cfg.Target.StackAlign)
}

func TestParseHonorsExplicitOutputAndFlags(t *testing.T) {
	cfg, err := Parse([]string{"-O", "2", "-L", "-v", "--target-file", "out.bin", "prog.c"})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.OptLevel)
	assert.False(t, cfg.EmitDot)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "out.bin", cfg.OutputPath)
}
