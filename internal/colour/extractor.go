package colour

import (
	"fmt"
	"strings"
)

// Extractor defines the interface for color extraction algorithms.
type Extractor interface {
	// Extract reduces pixels to at most count representative colours.
	// An empty sample or a count below 1 yields an empty palette.
	Extract(pixels []RGB, count int) *Palette
}

// Algorithm selects one of the extraction algorithms.
// The zero value is AlgorithmDominant.
type Algorithm int

const (
	// AlgorithmDominant returns the most frequent colours on a 16-level grid.
	AlgorithmDominant Algorithm = iota

	// AlgorithmMedianCut recursively bisects the RGB bounding box.
	AlgorithmMedianCut

	// AlgorithmKMeansRGB runs Lloyd's k-means in RGB space.
	AlgorithmKMeansRGB

	// AlgorithmKMeansLAB runs Lloyd's k-means in LAB space with Delta E 76.
	AlgorithmKMeansLAB

	// AlgorithmDeltaE greedily picks maximally distinct colours in LAB space.
	AlgorithmDeltaE
)

var algorithmNames = map[Algorithm]string{
	AlgorithmDominant:  "dominant",
	AlgorithmMedianCut: "mediancut",
	AlgorithmKMeansRGB: "kmeans-rgb",
	AlgorithmKMeansLAB: "kmeans-lab",
	AlgorithmDeltaE:    "deltae",
}

// algorithmAliases maps the short selector names accepted on input.
var algorithmAliases = map[string]Algorithm{
	"median": AlgorithmMedianCut,
	"kmeans": AlgorithmKMeansRGB,
	"lab":    AlgorithmKMeansLAB,
}

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !IsValidAlgorithm(a) {
		return nil, fmt.Errorf("unknown algorithm: %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	alg, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

// ParseAlgorithm converts a selector name (canonical or alias, case-insensitive) to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, alg := range ValidAlgorithms() {
		if alg.String() == name {
			return alg, nil
		}
	}
	if alg, ok := algorithmAliases[name]; ok {
		return alg, nil
	}
	return 0, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", s, ValidAlgorithms())
}

// ValidAlgorithms returns all algorithms in selector order.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmDominant,
		AlgorithmMedianCut,
		AlgorithmKMeansRGB,
		AlgorithmKMeansLAB,
		AlgorithmDeltaE,
	}
}

// IsValidAlgorithm checks if the given algorithm is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	_, ok := algorithmNames[alg]
	return ok
}

// NewExtractor creates the Extractor for alg. rng seeds the k-means and
// Delta E variants; a nil rng is replaced by a time-seeded source.
func NewExtractor(alg Algorithm, rng Rand) (Extractor, error) {
	switch alg {
	case AlgorithmDominant:
		return NewDominantExtractor(), nil
	case AlgorithmMedianCut:
		return NewMedianCutExtractor(), nil
	case AlgorithmKMeansRGB:
		return NewKMeansExtractor(rng), nil
	case AlgorithmKMeansLAB:
		return NewLabKMeansExtractor(rng), nil
	case AlgorithmDeltaE:
		return NewDeltaEExtractor(rng), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// Extract runs alg over pixels. Unknown algorithms yield an empty palette.
func Extract(pixels []RGB, count int, alg Algorithm, rng Rand) *Palette {
	extractor, err := NewExtractor(alg, rng)
	if err != nil {
		return NewPalette(nil)
	}
	return extractor.Extract(pixels, count)
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int
	SampleStep int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmKMeansLAB,
		ColorCount: 8,
		SampleStep: DefaultSampleStep,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.ColorCount < 1 {
		return fmt.Errorf("color count must be at least 1, got %d", c.ColorCount)
	}
	if c.ColorCount > 256 {
		return fmt.Errorf("color count too large: %d (maximum: 256)", c.ColorCount)
	}
	if c.SampleStep < 1 {
		return fmt.Errorf("sample step must be at least 1, got %d", c.SampleStep)
	}
	return nil
}

// ExtractFromBuffer samples buf and extracts a palette according to cfg.
func ExtractFromBuffer(buf *Buffer, cfg ExtractorConfig, rng Rand) (*Palette, error) {
	if buf == nil {
		return nil, fmt.Errorf("buffer cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	extractor, err := NewExtractor(cfg.Algorithm, rng)
	if err != nil {
		return nil, err
	}

	return extractor.Extract(buf.Sample(cfg.SampleStep), cfg.ColorCount), nil
}
