package g3a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFinishProducesHeaderThenSizeThenCode(t *testing.T) {
	code := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	out := NewBuilder("HELLO", "01.00.0000", "2026.0801.0000").
		InternalName("@HELLO").
		ShortName("Hello").
		Code(code).
		Finish()

	require.Len(t, out, HeaderSize+4+len(code))
	assert.Equal(t, code, out[HeaderSize+4:])

	sizeField := out[HeaderSize : HeaderSize+4]
	gotSize := uint32(sizeField[0])<<24 | uint32(sizeField[1])<<16 | uint32(sizeField[2])<<8 | uint32(sizeField[3])
	assert.Equal(t, uint32(HeaderSize+4+len(code)), gotSize)
}

func TestLocalizedSerializePlacesFieldsAtGroundedOffsets(t *testing.T) {
	loc := Localized{English: "english", Spanish: "spanish", EActivity: true, Version: "12.12.1234", Date: "2021.0330.1250"}
	buf := loc.Serialize()

	assert.Equal(t, byte('e'), buf[0x0])
	assert.Equal(t, byte('s'), buf[0x18])
	assert.Equal(t, byte(1), buf[0xc0])
}

func TestPixelSerializePacksFiveSixFiveBits(t *testing.T) {
	p := Pixel{Red: 1, Green: 3, Blue: 2}
	data := p.serialize()
	assert.Equal(t, [2]byte{0b00001000, 0b01100010}, data)
}

func TestChecksumSumsBytesWithWraparound(t *testing.T) {
	assert.Equal(t, uint32(6), Checksum([]byte{1, 2, 3}))
}
