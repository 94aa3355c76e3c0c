package colour

import "slices"

// dominantLevels is the width of each quantisation step per channel.
const dominantLevels = 16

// DominantExtractor returns the most frequent colours after snapping each
// channel to a 16-level grid. It is frequency voting, not clustering.
type DominantExtractor struct{}

// NewDominantExtractor creates a new DominantExtractor.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{}
}

type colourCount struct {
	colour RGB
	count  int
}

// Extract returns up to count grid colours ordered by descending frequency.
// Ties keep first-encountered order.
func (e *DominantExtractor) Extract(pixels []RGB, count int) *Palette {
	if len(pixels) == 0 || count < 1 {
		return NewPalette(nil)
	}

	index := make(map[RGB]int)
	var counts []colourCount
	for _, p := range pixels {
		q := quantize(p)
		if i, ok := index[q]; ok {
			counts[i].count++
			continue
		}
		index[q] = len(counts)
		counts = append(counts, colourCount{colour: q, count: 1})
	}

	slices.SortStableFunc(counts, func(a, b colourCount) int {
		return b.count - a.count
	})

	n := min(count, len(counts))
	colors := make([]RGB, n)
	for i := range n {
		colors[i] = counts[i].colour
	}
	return NewPalette(colors)
}

func quantize(c RGB) RGB {
	return RGB{
		R: c.R / dominantLevels * dominantLevels,
		G: c.G / dominantLevels * dominantLevels,
		B: c.B / dominantLevels * dominantLevels,
	}
}
