// Package table aligns cells into columns for the details panel.
package table

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Field is one labelled value in a details panel.
type Field struct {
	Label string
	Value string
}

// Format returns the rows padded according to the widest entry in each
// column. Rows may be ragged; missing cells render as empty. Widths are
// measured in terminal cells so styled text aligns.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], ansi.StringWidth(cell))
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - ansi.StringWidth(cell)
			last := c == colCount-1
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if !last {
					b.WriteString(strings.Repeat(" ", max(pad, 0)))
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

// Fields renders label/value pairs as "Label:  value" lines with the values
// aligned.
func Fields(fields []Field) []string {
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{f.Label + ":", f.Value}
	}
	return Format(rows, []Alignment{AlignLeft, AlignLeft})
}
