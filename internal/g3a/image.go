package g3a

const (
	imageRows    = 64
	imageColumns = 92
	imageSize    = imageRows * imageColumns * 2
)

// Pixel is an RGB555-ish 5/6/5-bit pixel, grounded on image/pixel.rs's
// Pixel (5 bits red, 6 bits green, 5 bits blue packed into two bytes).
type Pixel struct {
	Red, Green, Blue uint8
}

func (p Pixel) serialize() [2]byte {
	var out [2]byte
	out[0] = p.Red << 3
	out[0] |= 0b00000111 & (p.Green >> 3)
	out[1] = 0b00011111 & p.Blue
	out[1] |= 0b11100000 & (p.Green << 5)
	return out
}

// Image is the fixed 92x64 selected/unselected icon format the G3A header
// embeds, grounded on image.rs's Image (row-major Vec<Vec<Pixel>>, here a
// flat slice indexed the same way).
type Image struct {
	Pixels [imageRows][imageColumns]Pixel
}

// EmptyImage is an all-black icon, matching image.rs::empty.
func EmptyImage() Image {
	return Image{}
}

func (img Image) Serialize() [imageSize]byte {
	var out [imageSize]byte
	for y := 0; y < imageRows; y++ {
		for x := 0; x < imageColumns; x++ {
			first := (y*imageColumns + x) * 2
			data := img.Pixels[y][x].serialize()
			out[first] = data[0]
			out[first+1] = data[1]
		}
	}
	return out
}
