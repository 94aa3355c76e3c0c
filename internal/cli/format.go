package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// previewWidth is the width of an ANSI colour block.
const previewWidth = 8

var outputFormats = []string{"hex", "rgb", "json"}

// choiceValue is a string flag restricted to a fixed set of lower-case values.
type choiceValue struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoiceValue(p *string, def string, choices ...string) *choiceValue {
	*p = def
	return &choiceValue{value: p, choices: choices}
}

func (c *choiceValue) String() string {
	return *c.value
}

func (c *choiceValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("must be one of %s", strings.Join(c.choices, ", "))
	}
	*c.value = s
	return nil
}

func (c *choiceValue) Type() string {
	return "string"
}

func validateFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// formatPalettes renders one or more palettes. Several text palettes are
// separated by "# name" headers; several JSON palettes become an array.
func formatPalettes(palettes []*colour.Palette, format string, showPreview bool) (string, error) {
	if err := validateFormat(format); err != nil {
		return "", err
	}

	if len(palettes) == 1 {
		return formatPalette(palettes[0], format, showPreview)
	}

	if format == "json" {
		list := make([]colour.PaletteJSON, len(palettes))
		for i, p := range palettes {
			list[i] = p.JSON()
		}
		jsonBytes, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	}

	var sb strings.Builder
	for i, p := range palettes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "# %s\n", p.Name)
		text, err := formatPalette(p, format, showPreview)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	default:
		return "", validateFormat(format)
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, c := range palette.Colors {
		if showPreview {
			sb.WriteString(colour.FormatColourWithPreview(c, previewWidth))
		} else {
			sb.WriteString(c.Hex())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, c := range palette.Colors {
		if showPreview {
			sb.WriteString(colour.ColourPreviewWithText(c, c.Hex(), previewWidth) + "  ")
		}
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// parseColours parses hex colours given as separate arguments or comma
// separated lists.
func parseColours(values []string) ([]colour.RGB, error) {
	var hexes []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hexes = append(hexes, part)
			}
		}
	}
	if len(hexes) == 0 {
		return nil, fmt.Errorf("no colours given")
	}
	return colour.ParseHexList(hexes)
}
