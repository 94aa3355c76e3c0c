package store

import (
	"context"
	"fmt"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// Catalogue combines the builtin palettes with a user Store. Builtins are
// listed first and cannot be replaced or deleted; stored palettes that share a
// builtin's name are hidden.
type Catalogue struct {
	builtins []colour.Palette
	index    map[string]int
	user     Store
}

// NewCatalogue layers builtins over user. A nil builtins slice means no builtins.
func NewCatalogue(user Store, builtins []colour.Palette) *Catalogue {
	c := &Catalogue{
		builtins: builtins,
		index:    make(map[string]int, len(builtins)),
		user:     user,
	}
	for i, b := range builtins {
		c.index[b.Name] = i
	}
	return c
}

// IsBuiltin reports whether name refers to a builtin palette.
func (c *Catalogue) IsBuiltin(name string) bool {
	n, err := NormalizeName(name)
	if err != nil {
		return false
	}
	_, ok := c.index[n]
	return ok
}

// User returns the underlying user store.
func (c *Catalogue) User() Store {
	return c.user
}

// List implements Store.
func (c *Catalogue) List(ctx context.Context) ([]colour.Palette, error) {
	stored, err := c.user.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]colour.Palette, 0, len(c.builtins)+len(stored))
	for _, b := range c.builtins {
		out = append(out, colour.Palette{Name: b.Name, Colors: append([]colour.RGB(nil), b.Colors...)})
	}
	for _, p := range stored {
		if _, shadowed := c.index[p.Name]; shadowed {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get implements Store.
func (c *Catalogue) Get(ctx context.Context, name string) (colour.Palette, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return colour.Palette{}, err
	}
	if i, ok := c.index[n]; ok {
		b := c.builtins[i]
		return colour.Palette{Name: b.Name, Colors: append([]colour.RGB(nil), b.Colors...)}, nil
	}
	return c.user.Get(ctx, n)
}

// Put implements Store.
func (c *Catalogue) Put(ctx context.Context, p colour.Palette) error {
	if c.IsBuiltin(p.Name) {
		return fmt.Errorf("%w: %s is a builtin palette", ErrReadOnly, p.Name)
	}
	return c.user.Put(ctx, p)
}

// Delete implements Store.
func (c *Catalogue) Delete(ctx context.Context, name string) error {
	if c.IsBuiltin(name) {
		return fmt.Errorf("%w: %s is a builtin palette", ErrReadOnly, name)
	}
	return c.user.Delete(ctx, name)
}

// Close implements Store.
func (c *Catalogue) Close() error {
	return c.user.Close()
}
