package colour

import "math"

// Metric selects the space in which nearest palette colours are found.
type Metric int

const (
	// MetricRGB uses Euclidean distance on the RGB channels.
	MetricRGB Metric = iota
	// MetricLAB uses Delta E 76.
	MetricLAB
)

// mapperCacheLimit bounds the number of memoised lookups held by a Mapper.
const mapperCacheLimit = 1 << 16

// Mapper snaps colours to their nearest entry in a fixed palette.
// A Mapper is not safe for concurrent use: it memoises up to mapperCacheLimit
// lookups and starts over once the cache is full.
type Mapper struct {
	palette []RGB
	labs    []LAB
	metric  Metric
	cache   map[RGB]RGB
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithMetric selects the distance metric. The default is MetricRGB.
func WithMetric(metric Metric) MapperOption {
	return func(m *Mapper) {
		m.metric = metric
	}
}

// NewMapper creates a Mapper over a copy of palette.
func NewMapper(palette []RGB, opts ...MapperOption) *Mapper {
	m := &Mapper{
		palette: append([]RGB(nil), palette...),
		cache:   make(map[RGB]RGB),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metric == MetricLAB {
		m.labs = make([]LAB, len(m.palette))
		for i, c := range m.palette {
			m.labs[i] = RGBToLab(c)
		}
	}
	return m
}

// Nearest returns the palette colour closest to c. The earliest palette entry wins ties.
// With an empty palette c is returned unchanged.
func (m *Mapper) Nearest(c RGB) RGB {
	if len(m.palette) == 0 {
		return c
	}
	if hit, ok := m.cache[c]; ok {
		return hit
	}

	var nearest RGB
	if m.metric == MetricLAB {
		nearest = m.palette[m.nearestLAB(RGBToLab(c))]
	} else {
		nearest = m.palette[m.nearestRGB(c)]
	}
	if len(m.cache) >= mapperCacheLimit {
		clear(m.cache)
	}
	m.cache[c] = nearest
	return nearest
}

func (m *Mapper) nearestRGB(c RGB) int {
	best, bestDist := 0, math.MaxInt
	for i, p := range m.palette {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (m *Mapper) nearestLAB(c LAB) int {
	best, bestDist := 0, math.Inf(1)
	for i, p := range m.labs {
		if d := DeltaE76(c, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Blend returns lerp(c, Nearest(c), t) per channel, rounded. t is clamped to [0, 1].
func (m *Mapper) Blend(c RGB, t float64) RGB {
	t = clamp01(t)
	if t == 0 || len(m.palette) == 0 {
		return c
	}
	target := m.Nearest(c)
	return RGB{
		R: lerp(c.R, target.R, t),
		G: lerp(c.G, target.G, t),
		B: lerp(c.B, target.B, t),
	}
}

// Apply rewrites every pixel of buf in place with Blend(pixel, t). Alpha is untouched.
func (m *Mapper) Apply(buf *Buffer, t float64) {
	t = clamp01(t)
	if t == 0 || len(m.palette) == 0 {
		return
	}
	pix := buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		c := m.Blend(RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}, t)
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}
}

// ApplyPalette maps buf onto palette with blend factor t using RGB distance.
func ApplyPalette(buf *Buffer, palette []RGB, t float64) {
	NewMapper(palette).Apply(buf, t)
}

func lerp(a, b uint8, t float64) uint8 {
	return clampChannel(float64(a) + (float64(b)-float64(a))*t)
}
