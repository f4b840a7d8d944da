package engine

import (
	"fmt"
	"strings"
)

// EmptyGlyph is drawn in place of a zero cell
const EmptyGlyph = "-"

// RenderLines returns one string per board row. Every cell is right-aligned
// in a printwidth-wide field and followed by a single space.
func RenderLines(b *Board) []string {
	width := b.PrintWidth()
	lines := make([]string, b.Size())
	var sb strings.Builder
	for y := 0; y < b.Size(); y++ {
		sb.Reset()
		for x := 0; x < b.Size(); x++ {
			if v := b.Cell(x, y); v == 0 {
				fmt.Fprintf(&sb, "%*s ", width, EmptyGlyph)
			} else {
				fmt.Fprintf(&sb, "%*d ", width, v)
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

// Render returns the full text snapshot: each row on its own line followed by a blank line
func Render(b *Board) string {
	var sb strings.Builder
	for _, line := range RenderLines(b) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}
