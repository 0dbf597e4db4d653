package textutil

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// Cell is one grapheme cluster of a line placed on a terminal row.
type Cell struct {
	Text   string // what to draw; tabs become spaces, controls become '?'
	Offset int    // byte offset of the cluster in the source line
	Len    int    // byte length of the cluster in the source line
	X      int    // first screen column, 0-based
	Width  int
}

// Layout splits line into cells, expanding tabs to the next tab stop.
func Layout(line string, tabWidth int) []Cell {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	cells := make([]Cell, 0, len(line))
	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		start, end := g.Positions()
		cluster := g.Str()
		cell := Cell{Text: cluster, Offset: start, Len: end - start, X: x}
		switch {
		case cluster == "\t":
			cell.Text = " "
			cell.Width = tabWidth - (x % tabWidth)
		case requiresSanitization(firstRune(cluster)):
			cell.Text = "?"
			cell.Width = 1
		default:
			cell.Width = g.Width()
			if cell.Width <= 0 {
				cell.Width = 1
			}
		}
		cells = append(cells, cell)
		x += cell.Width
	}
	return cells
}

// ColumnToCell maps a 1-based byte column of line to the screen column the
// character starts at. Columns past the end map to the first free column.
func ColumnToCell(line string, col, tabWidth int) int {
	offset := col - 1
	if offset < 0 {
		offset = 0
	}
	end := 0
	for _, c := range Layout(line, tabWidth) {
		if offset < c.Offset+c.Len {
			return c.X
		}
		end = c.X + c.Width
	}
	return end
}

// DisplayWidth reports the printable width of text, counting each grapheme
// cluster once.
func DisplayWidth(text string) int {
	width := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// TruncateToWidth shortens text to width columns, ending in an ellipsis when
// anything was cut.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

// PadToWidth right-pads text with spaces to exactly width columns.
func PadToWidth(text string, width int) string {
	text = TruncateToWidth(text, width)
	return runewidth.FillRight(text, width)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
