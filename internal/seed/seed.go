// Package seed derives the random seed that drives k-means initialisation and
// Delta E sampling, so palettes can be reproduced for the same input.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// Mode determines how the random seed is generated.
type Mode string

const (
	// ModeContent hashes the decoded pixels (default, deterministic by content).
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute file path or URL.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
	// ModeRandom uses a non-deterministic seed (varies each run).
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode   // Seed mode
	Value *int64 // Seed value (only used when Mode is ModeManual)
}

// Source is what a seed can be derived from.
type Source struct {
	Buffer *colour.Buffer // required for ModeContent
	Path   string         // required for ModeFilepath
}

// Calculate determines the seed value based on the seed mode.
func Calculate(src Source, config Config) (int64, error) {
	switch config.Mode {
	case ModeContent, "":
		if src.Buffer == nil {
			return 0, fmt.Errorf("pixel buffer is required for content-based seed mode")
		}
		return ContentSeed(src.Buffer)
	case ModeFilepath:
		if src.Path == "" {
			return 0, fmt.Errorf("image path is required for filepath-based seed mode")
		}
		return FilepathSeed(src.Path)
	case ModeManual:
		if config.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *config.Value, nil
	case ModeRandom:
		return RandomSeed(), nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// Rand returns a colour.Rand seeded according to config.
func Rand(src Source, config Config) (colour.Rand, error) {
	s, err := Calculate(src, config)
	if err != nil {
		return nil, err
	}
	return colour.NewRand(s), nil
}

// ContentSeed hashes the buffer dimensions and a grid of its pixels, so the
// same image content yields the same seed regardless of where it was loaded from.
func ContentSeed(buf *colour.Buffer) (int64, error) {
	if buf == nil {
		return 0, fmt.Errorf("buffer cannot be nil")
	}

	hasher := sha256.New()

	dimBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(dimBytes[0:4], uint32(buf.Width))  // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dimBytes[4:8], uint32(buf.Height)) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dimBytes)

	// Roughly 100x100 samples are enough to tell images apart.
	step := max(buf.Width/100, buf.Height/100, 1)
	for y := 0; y < buf.Height; y += step {
		for x := 0; x < buf.Width; x += step {
			o := (y*buf.Width + x) * 4
			if o+4 > len(buf.Pix) {
				break
			}
			hasher.Write(buf.Pix[o : o+4])
		}
	}

	hash := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(hash[:8])), nil // #nosec G115 -- hash conversion is safe
}

// FilepathSeed hashes the absolute file path. URLs are hashed as-is.
func FilepathSeed(imagePath string) (int64, error) {
	if imagePath == "" {
		return 0, fmt.Errorf("image path cannot be empty")
	}

	key := imagePath
	if !isURL(imagePath) {
		if abs, err := filepath.Abs(imagePath); err == nil {
			key = abs
		}
	}

	hash := sha256.Sum256([]byte(key))
	return int64(binary.LittleEndian.Uint64(hash[:8])), nil // #nosec G115 -- hash conversion is safe
}

// RandomSeed generates a non-deterministic seed.
func RandomSeed() int64 {
	// #nosec G404 -- seed generation is intentionally non-deterministic
	return time.Now().UnixNano() + int64(rand.Intn(1000000))
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: content, filepath, manual, random)", s)
}

// Decode implements envconfig.Decoder.
func (m *Mode) Decode(value string) error {
	parsed, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
