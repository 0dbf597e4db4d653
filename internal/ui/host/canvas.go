package host

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/textutil"
	"github.com/kk-code-lab/jumpstep/internal/view"
)

// Glyph is the content of one screen column. Width 0 marks the right half of
// a wide glyph.
type Glyph struct {
	Text  string
	Width int
	Style tcell.Style
}

// Canvas is a fully composed screen: text rows, a status row and the cursor.
type Canvas struct {
	Width         int
	Rows          [][]Glyph
	Status        []Glyph
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// Compose lays out frame and the overlays of layer on a width x height screen.
// The last row is the status line.
func Compose(frame view.Frame, layer *Layer, theme ColorTheme, tabWidth, width, height int) Canvas {
	width = max(width, 1)
	height = max(height, 1)
	c := Canvas{Width: width}
	textRows := height - 1

	for y := 0; y < textRows; y++ {
		lineNo := frame.Top + y
		line := ""
		if y < len(frame.Lines) {
			line = frame.Lines[y]
		}
		shaded := layer != nil && layer.Shaded(lineNo)
		c.Rows = append(c.Rows, layoutRow(line, theme.TextStyle(shaded), tabWidth, width))
	}

	if layer != nil {
		for _, o := range layer.Labels() {
			y := o.Pos.Line - frame.Top
			if y < 0 || y >= textRows || y >= len(frame.Lines) {
				continue
			}
			x := textutil.ColumnToCell(frame.Lines[y], o.Pos.Col, tabWidth)
			placeLabel(c.Rows[y], x, o.Label, theme.OverlayStyle(o.Style))
		}
	}

	status := textutil.PadToWidth(" "+textutil.SanitizeTerminalText(frame.Status), width)
	c.Status = layoutRow(status, theme.StatusStyle(), tabWidth, width)

	cy := frame.Cursor.Line - frame.Top
	if cy >= 0 && cy < textRows && cy < len(frame.Lines) {
		cx := textutil.ColumnToCell(frame.Lines[cy], frame.Cursor.Col, tabWidth)
		if cx < width {
			c.CursorX, c.CursorY, c.CursorVisible = cx, cy, true
		}
	}
	return c
}

func layoutRow(line string, style tcell.Style, tabWidth, width int) []Glyph {
	row := make([]Glyph, 0, width)
	for _, cell := range textutil.Layout(line, tabWidth) {
		if cell.X+cell.Width > width {
			break
		}
		if cell.Text == " " && cell.Width > 1 {
			for i := 0; i < cell.Width; i++ {
				row = append(row, Glyph{Text: " ", Width: 1, Style: style})
			}
			continue
		}
		row = append(row, Glyph{Text: cell.Text, Width: cell.Width, Style: style})
		for i := 1; i < cell.Width; i++ {
			row = append(row, Glyph{Width: 0, Style: style})
		}
	}
	for len(row) < width {
		row = append(row, Glyph{Text: " ", Width: 1, Style: style})
	}
	return row
}

func placeLabel(row []Glyph, x int, label rune, style tcell.Style) {
	if x < 0 || x >= len(row) {
		return
	}
	for x > 0 && row[x].Width == 0 {
		x--
	}
	wide := row[x].Width > 1
	row[x] = Glyph{Text: string(label), Width: 1, Style: style}
	if wide && x+1 < len(row) {
		row[x+1] = Glyph{Text: " ", Width: 1, Style: style}
	}
}

// Text returns the characters of row, for tests and plain-text back-ends.
func Text(row []Glyph) string {
	var out []byte
	for _, g := range row {
		if g.Width == 0 {
			continue
		}
		out = append(out, g.Text...)
	}
	return string(out)
}
