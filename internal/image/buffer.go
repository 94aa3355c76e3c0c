package image

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// DefaultMaxDimension is the longest side images are reduced to before sampling.
const DefaultMaxDimension = 200

// Downscale shrinks img so that its longest side is at most maxDim pixels,
// keeping the aspect ratio. Images already small enough, or a maxDim below 1,
// return img unchanged. Neither side is reduced below one pixel.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim < 1 || (w <= maxDim && h <= maxDim) {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = max(1, h*maxDim/w)
	} else {
		nh = maxDim
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToBuffer converts img to a non-premultiplied RGBA pixel buffer.
func ToBuffer(img image.Image) *colour.Buffer {
	b := img.Bounds()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	} else {
		nrgba = &image.NRGBA{Pix: append([]uint8(nil), nrgba.Pix...), Stride: nrgba.Stride, Rect: nrgba.Rect}
	}

	return &colour.Buffer{Width: b.Dx(), Height: b.Dy(), Pix: nrgba.Pix}
}

// FromBuffer wraps buf as an image. The pixel slice is shared, not copied.
func FromBuffer(buf *colour.Buffer) *image.NRGBA {
	return &image.NRGBA{
		Pix:    buf.Pix,
		Stride: 4 * buf.Width,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
}

// SavePNG encodes img as PNG to path, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
