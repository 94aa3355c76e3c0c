package colour

import "math"

// defaultCandidatePool is the approximate number of pixels considered per pick.
const defaultCandidatePool = 1000

// DeltaEExtractor selects maximally distinct colours by farthest-point sampling
// in LAB space: each pick maximises its minimum Delta E 76 to the colours
// already chosen. Candidates are drawn from a strided subset of the sample.
type DeltaEExtractor struct {
	rng      Rand
	poolSize int
}

// NewDeltaEExtractor creates a new DeltaEExtractor.
func NewDeltaEExtractor(rng Rand) *DeltaEExtractor {
	return &DeltaEExtractor{
		rng:      orTimeSeeded(rng),
		poolSize: defaultCandidatePool,
	}
}

// Extract returns count colours taken verbatim from the sample. The first is
// random; when no candidate is farther than zero from the selection, a random
// pixel is added instead so the palette always reaches count entries.
func (e *DeltaEExtractor) Extract(pixels []RGB, count int) *Palette {
	if len(pixels) == 0 || count < 1 {
		return NewPalette(nil)
	}
	if count == 1 {
		return NewPalette([]RGB{pixels[0]})
	}

	labs := make([]LAB, len(pixels))
	for i, p := range pixels {
		labs[i] = RGBToLab(p)
	}

	fp := newFarthestPoint(labs, candidatePool(len(labs), e.poolSize))
	fp.add(e.rng.Intn(len(labs)))

	for len(fp.selected) < count {
		best, _ := fp.next()
		if best < 0 {
			best = e.rng.Intn(len(labs))
		}
		fp.add(best)
	}

	colors := make([]RGB, len(fp.selected))
	for i, idx := range fp.selected {
		colors[i] = pixels[idx]
	}
	return NewPalette(colors)
}

// candidatePool returns every step-th index so that roughly target indices remain.
func candidatePool(n, target int) []int {
	step := 1
	if target > 0 {
		step = max(1, n/target)
	}
	pool := make([]int, 0, n/step+1)
	for i := 0; i < n; i += step {
		pool = append(pool, i)
	}
	return pool
}

// farthestPoint tracks, for each candidate, its minimum distance to the selection.
type farthestPoint struct {
	labs     []LAB
	pool     []int
	minDist  []float64
	selected []int
}

func newFarthestPoint(labs []LAB, pool []int) *farthestPoint {
	minDist := make([]float64, len(pool))
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}
	return &farthestPoint{labs: labs, pool: pool, minDist: minDist}
}

// add selects the pixel at idx and tightens every candidate's minimum distance.
func (f *farthestPoint) add(idx int) {
	f.selected = append(f.selected, idx)
	chosen := f.labs[idx]
	for i, c := range f.pool {
		if d := DeltaE76(f.labs[c], chosen); d < f.minDist[i] {
			f.minDist[i] = d
		}
	}
}

// next returns the candidate with the largest minimum distance to the selection
// (first wins ties) and that distance, or -1 when no candidate has a positive distance.
func (f *farthestPoint) next() (int, float64) {
	best, bestDist := -1, 0.0
	for i, d := range f.minDist {
		if d > bestDist {
			best, bestDist = f.pool[i], d
		}
	}
	return best, bestDist
}
