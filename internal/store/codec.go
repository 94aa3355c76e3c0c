package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/security"
)

// MaxDocumentBytes bounds how much (decompressed) input a palette document may hold.
const MaxDocumentBytes int64 = 32 << 20

// documentVersion is written into every file the JSON store saves.
const documentVersion = 1

// document is the on-disk layout of the JSON store.
type document struct {
	Version  int                 `json:"version"`
	Order    []string            `json:"order"`
	Palettes map[string][]string `json:"palettes"`
}

// EncodePalettes writes palettes as a versioned document: a name -> hex list
// map plus the order in which the names should be listed.
func EncodePalettes(w io.Writer, palettes []colour.Palette) error {
	doc := document{
		Version:  documentVersion,
		Order:    make([]string, 0, len(palettes)),
		Palettes: make(map[string][]string, len(palettes)),
	}
	for i := range palettes {
		p := &palettes[i]
		if _, dup := doc.Palettes[p.Name]; !dup {
			doc.Order = append(doc.Order, p.Name)
		}
		doc.Palettes[p.Name] = p.ToHex()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode palettes: %w", err)
	}
	return nil
}

// DecodePalettes reads palettes in any of the supported layouts:
//
//   - the versioned document written by EncodePalettes
//   - a bare {"name": ["#hex", ...]} map, listed in document order
//   - a single palette as printed by "extract --format json"
//   - an array of such palettes
//
// Input larger than MaxDocumentBytes is rejected.
func DecodePalettes(r io.Reader) ([]colour.Palette, error) {
	data, err := io.ReadAll(security.NewLimitedReader(r, MaxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read palettes: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var list []colour.PaletteJSON
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to decode palette list: %w", err)
		}
		return fromPaletteJSON(list...)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode palettes: %w", err)
	}

	if _, ok := probe["version"]; ok {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode palette document: %w", err)
		}
		return fromDocument(doc)
	}

	if raw, ok := probe["colors"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[{")) {
		var single colour.PaletteJSON
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("failed to decode palette: %w", err)
		}
		return fromPaletteJSON(single)
	}

	return decodeHexMap(data)
}

func fromDocument(doc document) ([]colour.Palette, error) {
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("unsupported palette document version %d", doc.Version)
	}

	names := doc.Order
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	// Entries missing from the order list are appended in a stable order.
	var extra []string
	for n := range doc.Palettes {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	slices.Sort(extra)
	names = append(append([]string(nil), names...), extra...)

	out := make([]colour.Palette, 0, len(names))
	for _, n := range names {
		hexes, ok := doc.Palettes[n]
		if !ok {
			continue
		}
		colors, err := colour.ParseHexList(hexes)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", n, err)
		}
		out = append(out, colour.Palette{Name: n, Colors: colors})
	}
	return out, nil
}

func fromPaletteJSON(list ...colour.PaletteJSON) ([]colour.Palette, error) {
	out := make([]colour.Palette, 0, len(list))
	for i, pj := range list {
		colors := make([]colour.RGB, 0, len(pj.Colors))
		for j, c := range pj.Colors {
			if c.Hex == "" {
				colors = append(colors, c.RGB)
				continue
			}
			rgb, err := colour.ParseHex(c.Hex)
			if err != nil {
				return nil, fmt.Errorf("palette %d, colour %d: %w", i+1, j+1, err)
			}
			colors = append(colors, rgb)
		}
		out = append(out, colour.Palette{Name: pj.Name, Colors: colors})
	}
	return out, nil
}

// decodeHexMap walks a {"name": [hex...]} object token by token so the
// palettes come back in the order they appear in the document.
func decodeHexMap(data []byte) ([]colour.Palette, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("failed to decode palettes: expected a JSON object")
	}

	var out []colour.Palette
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode palettes: %w", err)
		}
		name, _ := tok.(string)

		var hexes []string
		if err := dec.Decode(&hexes); err != nil {
			return nil, fmt.Errorf("palette %q: expected a list of hex colours: %w", name, err)
		}
		colors, err := colour.ParseHexList(hexes)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}

		// A repeated key replaces the earlier value but keeps its position.
		if i, dup := index[name]; dup {
			out[i].Colors = colors
			continue
		}
		index[name] = len(out)
		out = append(out, colour.Palette{Name: name, Colors: colors})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode palettes: %w", err)
	}
	return out, nil
}
