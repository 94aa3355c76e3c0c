// Package effects implements the per-pixel adjustments that run before a
// palette is applied to an image.
package effects

import (
	"fmt"
	"math"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// Limits for the adjustment parameters.
const (
	MinContrast   = -255
	MaxContrast   = 255
	MinBrightness = -255
	MaxBrightness = 255
)

// Adjustments describes the colour adjustments applied before palette mapping.
// The zero value is not neutral: use Defaults, which keeps saturation at 100%.
type Adjustments struct {
	Contrast          float64      // -255..255, 0 leaves the image unchanged
	Brightness        int          // added to every channel
	RemoveColour      *colour.RGB  // pixels exactly matching become transparent
	HueDegrees        float64      // rotation, wraps in both directions
	SaturationPercent float64      // 100 leaves saturation unchanged
	Palette           []colour.RGB // optional; empty skips mapping
	Blend             float64      // palette blend factor, clamped to 0..1
	Metric            colour.Metric
}

// Defaults returns neutral adjustments with full palette blending.
func Defaults() Adjustments {
	return Adjustments{
		SaturationPercent: 100,
		Blend:             1,
	}
}

// Validate checks the adjustment ranges.
func (a Adjustments) Validate() error {
	if a.Contrast < MinContrast || a.Contrast > MaxContrast || math.IsNaN(a.Contrast) {
		return fmt.Errorf("contrast must be between %d and %d, got %v", MinContrast, MaxContrast, a.Contrast)
	}
	if a.Brightness < MinBrightness || a.Brightness > MaxBrightness {
		return fmt.Errorf("brightness must be between %d and %d, got %d", MinBrightness, MaxBrightness, a.Brightness)
	}
	if a.SaturationPercent < 0 || math.IsNaN(a.SaturationPercent) {
		return fmt.Errorf("saturation must not be negative, got %v", a.SaturationPercent)
	}
	if math.IsNaN(a.HueDegrees) || math.IsInf(a.HueDegrees, 0) {
		return fmt.Errorf("hue must be a finite number of degrees")
	}
	if a.Blend < 0 || a.Blend > 1 || math.IsNaN(a.Blend) {
		return fmt.Errorf("blend must be between 0 and 1, got %v", a.Blend)
	}
	return nil
}

// Apply runs contrast, brightness, colour removal, hue/saturation and finally
// palette mapping over buf, in place.
func (a Adjustments) Apply(buf *colour.Buffer) error {
	if buf == nil {
		return fmt.Errorf("buffer cannot be nil")
	}
	if err := a.Validate(); err != nil {
		return err
	}

	if a.Contrast != 0 {
		Contrast(buf, a.Contrast)
	}
	if a.Brightness != 0 {
		Brightness(buf, a.Brightness)
	}
	if a.RemoveColour != nil {
		RemoveColour(buf, *a.RemoveColour)
	}
	if a.HueDegrees != 0 || a.SaturationPercent != 100 {
		HueSaturation(buf, a.HueDegrees, a.SaturationPercent)
	}
	if len(a.Palette) > 0 {
		colour.NewMapper(a.Palette, colour.WithMetric(a.Metric)).Apply(buf, a.Blend)
	}
	return nil
}

// ContrastFactor returns the multiplier used by Contrast for level c.
func ContrastFactor(c float64) float64 {
	return (259 * (c + 255)) / (255 * (259 - c))
}

// Contrast scales every channel away from (or toward) mid grey.
func Contrast(buf *colour.Buffer, level float64) {
	factor := ContrastFactor(level)
	eachChannel(buf, func(v uint8) uint8 {
		return clampByte(factor*(float64(v)-128) + 128)
	})
}

// Brightness adds delta to every channel.
func Brightness(buf *colour.Buffer, delta int) {
	eachChannel(buf, func(v uint8) uint8 {
		return clampByte(float64(int(v) + delta))
	})
}

// RemoveColour makes every pixel that exactly matches target fully transparent.
func RemoveColour(buf *colour.Buffer, target colour.RGB) {
	pix := buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] == target.R && pix[i+1] == target.G && pix[i+2] == target.B {
			pix[i+3] = 0
		}
	}
}

// HueSaturation rotates hue by degrees and scales saturation by percent/100.
func HueSaturation(buf *colour.Buffer, degrees, percent float64) {
	shift := degrees / 360
	factor := percent / 100
	cache := make(map[colour.RGB]colour.RGB)

	pix := buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		in := colour.RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}
		out, ok := cache[in]
		if !ok {
			out = colour.HSLToRGB(colour.RGBToHSL(in).ShiftHue(shift).ScaleSaturation(factor))
			cache[in] = out
		}
		pix[i], pix[i+1], pix[i+2] = out.R, out.G, out.B
	}
}

func eachChannel(buf *colour.Buffer, fn func(uint8) uint8) {
	var lut [256]uint8
	for v := range lut {
		lut[v] = fn(uint8(v))
	}
	pix := buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
