package g3a

const (
	// HeaderSize is the fixed size of every G3A add-in's header block,
	// per spec.md's "fixed 0x7000-byte header then executable bytes"
	// contract.
	HeaderSize = 0x7000

	magicOffset      = 0x00
	checksumOffset   = 0x18
	selectedOffset   = 0x1300
	unselectedOffset = selectedOffset + imageSize
)

// magic is the add-in container identifier the loader checks for before
// accepting a file. file_builder.rs's File assembly (the piece that would
// place this) isn't present in this retrieval, so the exact control-byte
// layout here is reconstructed from the public G3A format rather than
// ported from a source file — see DESIGN.md.
var magic = []byte("USBPower")

// Builder accumulates the same configuration file_builder.rs's FileBuilder
// does: internal/short names, the two menu icons, optional EActivity
// metadata, and the raw executable bytes, then assembles them into a
// complete G3A container.
type Builder struct {
	internalName string
	shortName    string
	selected     Image
	unselected   Image
	localized    Localized
	eactivity    EActivity
	code         []byte
}

// NewBuilder seeds every localized name field with name and the version
// and date fields with version and dateStamp exactly as given (no date
// formatting is applied), leaving images and EActivity at their empty
// defaults until overridden.
func NewBuilder(name, version, dateStamp string) *Builder {
	return &Builder{
		selected:   EmptyImage(),
		unselected: EmptyImage(),
		eactivity:  EmptyEActivity(),
		localized: Localized{
			English: name, Spanish: name, German: name,
			French: name, Portuguese: name, Chinese: name,
			Version: version, Date: dateStamp,
		},
	}
}

func (b *Builder) InternalName(name string) *Builder { b.internalName = name; return b }
func (b *Builder) ShortName(name string) *Builder     { b.shortName = name; return b }
func (b *Builder) SelectedImage(img Image) *Builder   { b.selected = img; return b }
func (b *Builder) UnselectedImage(img Image) *Builder { b.unselected = img; return b }
func (b *Builder) EActivityInfo(e EActivity) *Builder { b.eactivity = e; b.localized.EActivity = true; return b }
func (b *Builder) Code(code []byte) *Builder          { b.code = code; return b }

// Finish assembles the complete container: a HeaderSize-byte header
// carrying the magic identifier, a checksum, the localization and
// EActivity blocks at their grounded offsets, and the two menu icons,
// followed by a 4-byte big-endian size field and the executable bytes
// themselves (file_builder.rs's file_size = 0x7000 + 4 + len(code)).
func (b *Builder) Finish() []byte {
	header := make([]byte, HeaderSize)
	copy(header[magicOffset:], magic)

	loc := b.localized.Serialize()
	copy(header[localizationOffset:], loc[:])

	act := b.eactivity.Serialize()
	copy(header[eactivityOffset:], act[:])

	sel := b.selected.Serialize()
	copy(header[selectedOffset:], sel[:])
	unsel := b.unselected.Serialize()
	copy(header[unselectedOffset:], unsel[:])

	WriteString(header[0x40:0x60], b.internalName)
	WriteString(header[0x60:0x6b], b.shortName)

	sum := Checksum(header[:checksumOffset])
	header[checksumOffset] = byte(sum >> 24)
	header[checksumOffset+1] = byte(sum >> 16)
	header[checksumOffset+2] = byte(sum >> 8)
	header[checksumOffset+3] = byte(sum)

	fileSize := uint32(HeaderSize) + 4 + uint32(len(b.code))
	sizeField := []byte{
		byte(fileSize >> 24), byte(fileSize >> 16),
		byte(fileSize >> 8), byte(fileSize),
	}

	out := make([]byte, 0, fileSize)
	out = append(out, header...)
	out = append(out, sizeField...)
	out = append(out, b.code...)
	return out
}
