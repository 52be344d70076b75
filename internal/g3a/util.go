// Package g3a assembles the Casio Prizm fx-CG50 add-in container: a fixed
// 0x7000-byte header (name/localization/icon metadata) followed by the
// executable byte stream internal/assemble produces. Per spec.md's
// Non-goal, icon/localization/EActivity internals are not reproduced
// pixel-for-pixel or byte-for-byte — only the header framing and the
// fields needed for the loader to accept the file are populated.
package g3a

// WriteString copies content into target, truncating silently if it
// doesn't fit, matching util.rs's write_string (a field-width clamp, not
// an error condition, since every caller already sized its buffer from a
// fixed-format field).
func WriteString(target []byte, content string) {
	copy(target, content)
}

// Checksum adds every byte together with wraparound, the same sum the
// loader verifies against, grounded on util.rs's checksum.
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}
