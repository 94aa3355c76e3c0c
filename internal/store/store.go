// Package store persists named palettes. Backends keep user palettes in
// insertion order; a Catalogue layers the read-only builtin palettes on top.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmylchreest/pixelator/internal/colour"
)

var (
	// ErrNotFound is returned when no palette has the requested name.
	ErrNotFound = errors.New("palette not found")

	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("invalid palette name")

	// ErrReadOnly is returned when modifying a builtin palette.
	ErrReadOnly = errors.New("palette is read-only")

	// ErrEmptyPalette is returned when storing a palette without colours.
	ErrEmptyPalette = errors.New("palette has no colours")
)

// Store is a named palette collection.
type Store interface {
	// List returns every palette in insertion order.
	List(ctx context.Context) ([]colour.Palette, error)

	// Get returns the palette with the given name, or ErrNotFound.
	Get(ctx context.Context, name string) (colour.Palette, error)

	// Put inserts a palette, or replaces an existing one of the same name
	// while keeping its position.
	Put(ctx context.Context, p colour.Palette) error

	// Delete removes the named palette, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}

// NormalizeName trims surrounding whitespace and rejects empty names.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrInvalidName
	}
	return n, nil
}

// prepare validates p and returns a copy with a normalised name.
func prepare(p colour.Palette) (colour.Palette, error) {
	name, err := NormalizeName(p.Name)
	if err != nil {
		return colour.Palette{}, err
	}
	if len(p.Colors) == 0 {
		return colour.Palette{}, fmt.Errorf("%w: %s", ErrEmptyPalette, name)
	}
	return colour.Palette{Name: name, Colors: append([]colour.RGB(nil), p.Colors...)}, nil
}

// AutoName builds the name used for palettes saved straight from an image:
// the file name without its extension, "+", and the local time as yy-mm-dd-hh-mm-ss.
// An empty source falls back to "image".
func AutoName(source string, now time.Time) string {
	stem := filepath.Base(source)
	if i := strings.IndexAny(stem, "?#"); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "image"
	}
	return stem + "+" + now.Format("06-01-02-15-04-05")
}

// collection is an ordered name -> colours map. It is not safe for concurrent use.
type collection struct {
	order    []string
	palettes map[string][]colour.RGB
}

func newCollection() *collection {
	return &collection{palettes: make(map[string][]colour.RGB)}
}

func (c *collection) list() []colour.Palette {
	out := make([]colour.Palette, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, colour.Palette{Name: name, Colors: append([]colour.RGB(nil), c.palettes[name]...)})
	}
	return out
}

func (c *collection) get(name string) (colour.Palette, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return colour.Palette{}, err
	}
	colors, ok := c.palettes[n]
	if !ok {
		return colour.Palette{}, fmt.Errorf("%w: %s", ErrNotFound, n)
	}
	return colour.Palette{Name: n, Colors: append([]colour.RGB(nil), colors...)}, nil
}

func (c *collection) put(p colour.Palette) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}
	if _, ok := c.palettes[p.Name]; !ok {
		c.order = append(c.order, p.Name)
	}
	c.palettes[p.Name] = p.Colors
	return nil
}

func (c *collection) remove(name string) error {
	n, err := NormalizeName(name)
	if err != nil {
		return err
	}
	if _, ok := c.palettes[n]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, n)
	}
	delete(c.palettes, n)
	for i, existing := range c.order {
		if existing == n {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection) clone() *collection {
	out := &collection{
		order:    append([]string(nil), c.order...),
		palettes: make(map[string][]colour.RGB, len(c.palettes)),
	}
	for k, v := range c.palettes {
		out.palettes[k] = v
	}
	return out
}
