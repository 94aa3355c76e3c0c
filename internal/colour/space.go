// Package colour provides colour-space conversions, palette extraction and palette mapping.
package colour

import "math"

// LAB represents a colour in CIE L*a*b* space relative to the D65 white point.
// L is in [0, 100]; A and B are effectively within [-128, 127] for the sRGB gamut.
type LAB struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// XYZ represents a colour in CIE 1931 XYZ space scaled so that Y of white is 100.
type XYZ struct {
	X, Y, Z float64
}

// D65 reference white.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

const (
	labEpsilon = 0.008856
	labKappa   = 7.787
	labOffset  = 16.0 / 116.0
)

// linearize applies the inverse sRGB companding to a channel in [0, 1].
func linearize(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

// compand applies the sRGB companding to a linear channel.
func compand(v float64) float64 {
	if v > 0.0031308 {
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return 12.92 * v
}

// RGBToXYZ converts an sRGB colour to XYZ.
func RGBToXYZ(c RGB) XYZ {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)

	return XYZ{
		X: (r*0.4124564 + g*0.3575761 + b*0.1804375) * 100,
		Y: (r*0.2126729 + g*0.7151522 + b*0.0721750) * 100,
		Z: (r*0.0193339 + g*0.1191920 + b*0.9503041) * 100,
	}
}

// XYZToRGB converts XYZ to sRGB. Channels outside the gamut are clamped.
func XYZToRGB(c XYZ) RGB {
	x := c.X / 100
	y := c.Y / 100
	z := c.Z / 100

	r := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	g := x*-0.9692660 + y*1.8760108 + z*0.0415560
	b := x*0.0556434 + y*-0.2040259 + z*1.0572252

	return RGB{
		R: clampChannel(compand(r) * 255),
		G: clampChannel(compand(g) * 255),
		B: clampChannel(compand(b) * 255),
	}
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + labOffset
}

func labFInverse(f float64) float64 {
	if cube := f * f * f; cube > labEpsilon {
		return cube
	}
	return (f - labOffset) / labKappa
}

// XYZToLab converts XYZ to LAB.
func XYZToLab(c XYZ) LAB {
	fx := labF(c.X / whiteX)
	fy := labF(c.Y / whiteY)
	fz := labF(c.Z / whiteZ)

	return LAB{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToXYZ converts LAB to XYZ.
func LabToXYZ(c LAB) XYZ {
	fy := (c.L + 16) / 116
	fx := c.A/500 + fy
	fz := fy - c.B/200

	return XYZ{
		X: labFInverse(fx) * whiteX,
		Y: labFInverse(fy) * whiteY,
		Z: labFInverse(fz) * whiteZ,
	}
}

// RGBToLab converts an sRGB colour to LAB.
func RGBToLab(c RGB) LAB {
	return XYZToLab(RGBToXYZ(c))
}

// LabToRGB converts LAB to sRGB, clamping each channel to [0, 255].
func LabToRGB(c LAB) RGB {
	return XYZToRGB(LabToXYZ(c))
}

// DeltaE76 returns the CIE76 colour difference, the Euclidean distance in LAB.
func DeltaE76(a, b LAB) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// clampChannel rounds v to the nearest integer and saturates it to [0, 255].
// NaN maps to 0.
func clampChannel(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
