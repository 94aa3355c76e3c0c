package colour

import (
	"math"
	"slices"
)

// MedianCutExtractor quantises colours by recursive bisection of the RGB bounding box.
type MedianCutExtractor struct{}

// NewMedianCutExtractor creates a new MedianCutExtractor.
func NewMedianCutExtractor() *MedianCutExtractor {
	return &MedianCutExtractor{}
}

// bucket is a set of pixels owned by exactly one node of the partition.
type bucket []RGB

// channelRanges returns max-min for each channel.
func (b bucket) channelRanges() (r, g, bl int) {
	if len(b) == 0 {
		return 0, 0, 0
	}
	lo, hi := b[0], b[0]
	for _, c := range b[1:] {
		lo.R, hi.R = min(lo.R, c.R), max(hi.R, c.R)
		lo.G, hi.G = min(lo.G, c.G), max(hi.G, c.G)
		lo.B, hi.B = min(lo.B, c.B), max(hi.B, c.B)
	}
	return int(hi.R) - int(lo.R), int(hi.G) - int(lo.G), int(hi.B) - int(lo.B)
}

// span is the sum of the per-channel ranges.
func (b bucket) span() int {
	r, g, bl := b.channelRanges()
	return r + g + bl
}

// split sorts the bucket along its widest channel and cuts it at the median index.
// The receiver's backing array is reused by the children.
func (b bucket) split() (bucket, bucket) {
	r, g, bl := b.channelRanges()

	var key func(RGB) uint8
	switch {
	case r >= g && r >= bl:
		key = func(c RGB) uint8 { return c.R }
	case g >= bl:
		key = func(c RGB) uint8 { return c.G }
	default:
		key = func(c RGB) uint8 { return c.B }
	}

	slices.SortStableFunc(b, func(x, y RGB) int {
		return int(key(x)) - int(key(y))
	})

	mid := len(b) / 2
	return b[:mid], b[mid:]
}

// mean returns the per-channel arithmetic mean, rounded. An empty bucket is black.
func (b bucket) mean() RGB {
	if len(b) == 0 {
		return RGB{}
	}
	var r, g, bl int
	for _, c := range b {
		r += int(c.R)
		g += int(c.G)
		bl += int(c.B)
	}
	n := float64(len(b))
	return RGB{
		R: uint8(math.Round(float64(r) / n)),
		G: uint8(math.Round(float64(g) / n)),
		B: uint8(math.Round(float64(bl) / n)),
	}
}

// Extract partitions pixels into at most count buckets and returns their means.
// Buckets holding a single pixel are never split, so fewer than count colours
// are returned when the sample is smaller than count.
func (e *MedianCutExtractor) Extract(pixels []RGB, count int) *Palette {
	if len(pixels) == 0 || count < 1 {
		return NewPalette(nil)
	}

	root := make(bucket, len(pixels))
	copy(root, pixels)
	buckets := []bucket{root}

	for len(buckets) < count {
		target := widestBucket(buckets)
		if target < 0 {
			break
		}

		left, right := buckets[target].split()
		buckets = slices.Replace(buckets, target, target+1, left, right)
	}

	colors := make([]RGB, len(buckets))
	for i, b := range buckets {
		colors[i] = b.mean()
	}
	return NewPalette(colors)
}

// widestBucket returns the index of the splittable bucket with the largest span,
// preferring the earliest on ties, or -1 when every bucket holds at most one pixel.
func widestBucket(buckets []bucket) int {
	best, bestSpan := -1, -1
	for i, b := range buckets {
		if len(b) <= 1 {
			continue
		}
		if s := b.span(); s > bestSpan {
			best, bestSpan = i, s
		}
	}
	return best
}
