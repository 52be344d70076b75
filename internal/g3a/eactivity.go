package g3a

const (
	eactivityOffset = 0x170
	eactivitySize   = 0x420
	iconSize        = 0x300
)

// EActivity carries the optional EActivity-mode display names and a fixed
// 0x300-byte icon bitmap, grounded on eactivity.rs's EActivity struct and
// its byte layout (each name field 0x24 bytes, the icon starting at
// buffer offset 0x120 once this block lands at eactivityOffset — matching
// eactivity.rs::parse's raw_icon slice at file offset 0x0290).
type EActivity struct {
	English, Spanish, German, French, Portuguese, Chinese string
	Icon                                                  [iconSize]byte
}

// EmptyEActivity returns the zero-value EActivity eactivity.rs::empty
// produces for add-ins that don't use EActivity mode.
func EmptyEActivity() EActivity {
	return EActivity{}
}

func (e EActivity) Serialize() [eactivitySize]byte {
	var buf [eactivitySize]byte

	WriteString(buf[0x00:0x24], e.English)
	WriteString(buf[0x24:0x48], e.Spanish)
	WriteString(buf[0x48:0x6c], e.German)
	WriteString(buf[0x6c:0x90], e.French)
	WriteString(buf[0x90:0xb4], e.Portuguese)
	WriteString(buf[0xb4:0xd8], e.Chinese)

	// reserved, filled with English as eactivity.rs::serialize does.
	WriteString(buf[0xd8:0xfc], e.English)
	WriteString(buf[0xfc:0x120], e.English)

	copy(buf[0x120:0x120+iconSize], e.Icon[:])

	return buf
}
