package colour

import "math"

// HSL represents a colour in HSL space. All components are in [0, 1];
// hue is circular, so 1 and 0 denote the same hue.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// RGBToHSL converts an RGB colour to HSL.
func RGBToHSL(rgb RGB) HSL {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	l := (maxVal + minVal) / 2.0

	// Achromatic.
	if delta == 0 {
		return HSL{H: 0, S: 0, L: l}
	}

	var s float64
	if l > 0.5 {
		s = delta / (2.0 - maxVal - minVal)
	} else {
		s = delta / (maxVal + minVal)
	}

	var h float64
	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}

	return HSL{H: h / 6, S: s, L: l}
}

// HSLToRGB converts an HSL colour to RGB. The hue is wrapped into [0, 1)
// and saturation and lightness are clamped to [0, 1] before conversion.
func HSLToRGB(c HSL) RGB {
	h := WrapHue(c.H)
	s := clamp01(c.S)
	l := clamp01(c.L)

	if s == 0 {
		v := clampChannel(l * 255)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		R: clampChannel(hueToRGB(p, q, h+1.0/3.0) * 255),
		G: clampChannel(hueToRGB(p, q, h) * 255),
		B: clampChannel(hueToRGB(p, q, h-1.0/3.0) * 255),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}

	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// WrapHue maps any hue onto [0, 1).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	// -tiny + 1 can round up to exactly 1.
	if h >= 1 {
		h = 0
	}
	return h
}

// ShiftHue rotates the hue by delta turns, wrapping modulo 1.
func (c HSL) ShiftHue(delta float64) HSL {
	c.H = WrapHue(c.H + delta)
	return c
}

// ScaleSaturation multiplies the saturation by factor, clamped to [0, 1].
func (c HSL) ScaleSaturation(factor float64) HSL {
	c.S = clamp01(c.S * factor)
	return c
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
func Luminance(rgb RGB) float64 {
	r := linearize(float64(rgb.R) / 255.0)
	g := linearize(float64(rgb.G) / 255.0)
	b := linearize(float64(rgb.B) / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}
