package g3a

const (
	localizationOffset = 0x6b
	localizationSize    = 0xdf

	englishOffset     = 0x00
	spanishOffset     = 0x18
	germanOffset      = 0x30
	frenchOffset      = 0x48
	portugueseOffset  = 0x60
	chineseOffset     = 0x78
	textSize          = 0x18
	eactivityFlagByte = 0xc0
	versionOffset     = 0xc5
	versionSize       = 0xc
	dateOffset        = 0xd1
	dateSize          = 0xe
)

// Localized carries the add-in's display name in every language the
// loader menu supports, plus its version/date stamp, grounded on
// localization.rs's Localized struct and its fixed field offsets.
type Localized struct {
	English, Spanish, German, French, Portuguese, Chinese string
	EActivity                                              bool
	Version, Date                                          string
}

// Serialize lays out the header's localization block exactly at the byte
// offsets localization.rs::parse reads back (English at 0x6b, its
// siblings each 0x18 bytes further, the EActivity flag at 0x12b, version
// at 0x130, date at 0x13c — all relative to file start once Builder.Finish
// places this block at localizationOffset).
func (l Localized) Serialize() [localizationSize]byte {
	var buf [localizationSize]byte

	WriteString(buf[englishOffset:englishOffset+textSize], l.English)
	WriteString(buf[spanishOffset:spanishOffset+textSize], l.Spanish)
	WriteString(buf[germanOffset:germanOffset+textSize], l.German)
	WriteString(buf[frenchOffset:frenchOffset+textSize], l.French)
	WriteString(buf[portugueseOffset:portugueseOffset+textSize], l.Portuguese)
	WriteString(buf[chineseOffset:chineseOffset+textSize], l.Chinese)

	// reserved fields the loader doesn't otherwise use, filled with the
	// English name as localization.rs's serialize does.
	WriteString(buf[0x90:0x90+textSize], l.English)
	WriteString(buf[0xa8:0xa8+textSize], l.English)

	if l.EActivity {
		buf[eactivityFlagByte] = 1
	}

	WriteString(buf[versionOffset:versionOffset+versionSize], l.Version)
	WriteString(buf[dateOffset:dateOffset+dateSize], l.Date)

	return buf
}
