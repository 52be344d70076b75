package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAArch64ConfigReservesScratch(t *testing.T) {
	cfg := AArch64Mac.Config()
	assert.Equal(t, len(AArch64Mac.GPRegisters)-1, cfg.GeneralPurposeCount)
	assert.Equal(t, len(AArch64Mac.FPRegisters)-1, cfg.FloatingPointCount)
}

func TestByNameKnownTargets(t *testing.T) {
	_, ok := ByName("mac-aarch64")
	assert.True(t, ok)
	_, ok = ByName("fxcg50")
	assert.True(t, ok)
	_, ok = ByName("nope")
	assert.False(t, ok)
}

func TestUseableMatchesClass(t *testing.T) {
	assert.True(t, AArch64Mac.Useable(GeneralPurpose, false))
	assert.False(t, AArch64Mac.Useable(GeneralPurpose, true))
	assert.True(t, AArch64Mac.Useable(FloatingPoint, true))
}
