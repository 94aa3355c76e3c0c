package colour

import "math"

// KMeansExtractor implements colour extraction using Lloyd's k-means clustering,
// either directly in RGB or in LAB with Delta E 76 as the metric.
type KMeansExtractor struct {
	lab           bool
	maxIterations int
	convergence   float64
	rng           Rand
}

// NewKMeansExtractor creates an RGB k-means extractor (10 iterations).
func NewKMeansExtractor(rng Rand) *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations: 10,
		convergence:   1.0,
		rng:           orTimeSeeded(rng),
	}
}

// NewLabKMeansExtractor creates a LAB k-means extractor (15 iterations).
func NewLabKMeansExtractor(rng Rand) *KMeansExtractor {
	return &KMeansExtractor{
		lab:           true,
		maxIterations: 15,
		convergence:   1.0,
		rng:           orTimeSeeded(rng),
	}
}

// Extract clusters pixels into count groups and returns the final centroids.
// The palette always has count entries for a non-empty sample; clusters that
// lose all their members keep their previous centroid.
func (e *KMeansExtractor) Extract(pixels []RGB, count int) *Palette {
	if len(pixels) == 0 || count < 1 {
		return NewPalette(nil)
	}

	points := make([]point3D, len(pixels))
	for i, p := range pixels {
		points[i] = e.toPoint(p)
	}

	centroids := e.kmeans(points, count)

	colors := make([]RGB, len(centroids))
	for i, c := range centroids {
		colors[i] = e.toRGB(c)
	}
	return NewPalette(colors)
}

// point3D represents a point in a 3D colour space (RGB or LAB).
type point3D struct {
	X, Y, Z float64
}

// distance calculates the Euclidean distance between two points.
func (p point3D) distance(other point3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (e *KMeansExtractor) toPoint(c RGB) point3D {
	if e.lab {
		lab := RGBToLab(c)
		return point3D{X: lab.L, Y: lab.A, Z: lab.B}
	}
	return point3D{X: float64(c.R), Y: float64(c.G), Z: float64(c.B)}
}

func (e *KMeansExtractor) toRGB(p point3D) RGB {
	if e.lab {
		return LabToRGB(LAB{L: p.X, A: p.Y, B: p.Z})
	}
	return RGB{R: clampChannel(p.X), G: clampChannel(p.Y), B: clampChannel(p.Z)}
}

// kmeans performs k-means clustering on the points and returns the centroids.
func (e *KMeansExtractor) kmeans(points []point3D, k int) []point3D {
	centroids := e.initializeCentroids(points, k)
	assignments := make([]int, len(points))

	for range e.maxIterations {
		for i, point := range points {
			assignments[i] = findNearestCentroid(point, centroids)
		}

		newCentroids := e.recalculateCentroids(points, assignments, centroids)

		converged := true
		for i := range centroids {
			if centroids[i].distance(newCentroids[i]) > e.convergence {
				converged = false
				break
			}
		}

		centroids = newCentroids
		if converged {
			break
		}
	}

	return centroids
}

// initializeCentroids picks k points uniformly at random, with replacement.
func (e *KMeansExtractor) initializeCentroids(points []point3D, k int) []point3D {
	centroids := make([]point3D, k)
	for i := range centroids {
		centroids[i] = points[e.rng.Intn(len(points))]
	}
	return centroids
}

// findNearestCentroid returns the index of the nearest centroid; the first wins ties.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.Inf(1)
	nearest := 0

	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids returns the mean of each cluster. RGB means are rounded to
// whole channel values. A cluster with no members keeps its previous centroid.
func (e *KMeansExtractor) recalculateCentroids(points []point3D, assignments []int, previous []point3D) []point3D {
	k := len(previous)
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].X += point.X
		sums[cluster].Y += point.Y
		sums[cluster].Z += point.Z
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] == 0 {
			centroids[i] = previous[i]
			continue
		}
		n := float64(counts[i])
		c := point3D{X: sums[i].X / n, Y: sums[i].Y / n, Z: sums[i].Z / n}
		if !e.lab {
			c = point3D{X: math.Round(c.X), Y: math.Round(c.Y), Z: math.Round(c.Z)}
		}
		centroids[i] = c
	}

	return centroids
}
