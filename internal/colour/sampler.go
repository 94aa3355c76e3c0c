package colour

const (
	// DefaultSampleStep visits every 4th pixel when sampling.
	DefaultSampleStep = 4

	// OpaqueThreshold is the alpha value at or below which a pixel is treated as transparent.
	OpaqueThreshold = 128
)

// Buffer is a decoded image: interleaved 8-bit R, G, B, A per pixel, row-major.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed (fully transparent) buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Len returns the number of complete pixels in the buffer.
func (b *Buffer) Len() int {
	return len(b.Pix) / 4
}

// At returns the colour and alpha of pixel i in row-major order.
func (b *Buffer) At(i int) (RGB, uint8) {
	o := i * 4
	return RGB{R: b.Pix[o], G: b.Pix[o+1], B: b.Pix[o+2]}, b.Pix[o+3]
}

// Set writes the colour and alpha of pixel i.
func (b *Buffer) Set(i int, c RGB, alpha uint8) {
	o := i * 4
	b.Pix[o] = c.R
	b.Pix[o+1] = c.G
	b.Pix[o+2] = c.B
	b.Pix[o+3] = alpha
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Sample collects the opaque colours of every step-th pixel.
// A step below 1 samples every pixel. Pixels with alpha <= OpaqueThreshold are skipped.
// An image without opaque pixels yields an empty, non-nil sample.
func (b *Buffer) Sample(step int) []RGB {
	return SamplePixels(b.Pix, step)
}

// SamplePixels is Sample over a raw RGBA byte slice. A trailing partial pixel is ignored.
func SamplePixels(pix []uint8, step int) []RGB {
	if step < 1 {
		step = 1
	}
	stride := 4 * step

	pixels := make([]RGB, 0, len(pix)/stride+1)
	for i := 0; i+3 < len(pix); i += stride {
		if pix[i+3] <= OpaqueThreshold {
			continue
		}
		pixels = append(pixels, RGB{R: pix[i], G: pix[i+1], B: pix[i+2]})
	}
	return pixels
}
