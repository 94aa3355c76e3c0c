package colour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a string is not a #RGB, #RRGGBB or #RRGGBBAA colour.
var ErrInvalidHex = errors.New("invalid hex colour")

// ParseHex parses a hex colour. The leading '#' is optional and an
// alpha byte in the #RRGGBBAA form is accepted and discarded.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 8 {
		hex = hex[:6]
	}
	if len(hex) != 3 && len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// It is intended for package-level tables of known colours.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHexList parses a list of hex colours, failing on the first bad entry.
func ParseHexList(values []string) ([]RGB, error) {
	colors := make([]RGB, 0, len(values))
	for i, v := range values {
		c, err := ParseHex(v)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i+1, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}
