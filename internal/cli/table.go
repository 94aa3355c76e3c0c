package cli

import (
	"strings"
	"unicode/utf8"
)

// Table renders rows in aligned columns. Cell widths are measured in runes
// with ANSI escape sequences ignored, so swatch cells line up with plain text.
type Table struct {
	headers []string
	rows    [][]string
	padding int
	right   map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
		right:   make(map[int]bool),
	}
}

// AlignRight right-aligns the given columns, e.g. colour counts.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats the table. The last column is not padded.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}

	var sb strings.Builder
	t.writeLine(&sb, t.headers, widths)
	t.writeLine(&sb, sep, widths)
	for _, row := range t.rows {
		t.writeLine(&sb, row, widths)
	}
	return sb.String()
}

func (t *Table) writeLine(sb *strings.Builder, cells []string, widths []int) {
	gap := strings.Repeat(" ", t.padding)
	last := len(cells) - 1
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(gap)
		}
		switch {
		case t.right[i]:
			sb.WriteString(padLeft(cell, widths[i]))
		case i == last:
			sb.WriteString(cell)
		default:
			sb.WriteString(padRight(cell, widths[i]))
		}
	}
	sb.WriteString("\n")
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	if n := displayWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads s with leading spaces to the given display width.
func padLeft(s string, width int) string {
	if n := displayWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// displayWidth counts the runes of s outside ANSI CSI sequences (ESC [ ... final byte).
func displayWidth(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
