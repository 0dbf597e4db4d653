package view

import (
	"fmt"
	"unicode/utf8"

	"github.com/kk-code-lab/jumpstep/internal/document"
	"github.com/kk-code-lab/jumpstep/internal/jump"
)

const maxBackRefs = 100

// Model is the viewer state: a document, a cursor and the visible window.
// It implements jump.Viewport and jump.Navigator.
type Model struct {
	doc      *document.Document
	cursor   jump.Position
	top      int
	height   int
	backRefs []jump.Position
	message  string
}

// Frame is everything a host needs to draw one screen.
type Frame struct {
	Top    int
	Lines  []string
	Cursor jump.Position
	Status string
}

// NewModel returns a model with the cursor on the first character.
func NewModel(doc *document.Document) *Model {
	if doc == nil {
		doc = &document.Document{}
	}
	return &Model{
		doc:    doc,
		cursor: jump.Position{Line: 1, Col: 1},
		top:    1,
		height: 1,
	}
}

// SetHeight sets the number of text rows and keeps the cursor visible.
func (m *Model) SetHeight(rows int) {
	if rows < 1 {
		rows = 1
	}
	m.height = rows
	m.scrollToCursor()
}

func (m *Model) Height() int { return m.height }

func (m *Model) Top() int { return m.top }

func (m *Model) Cursor() jump.Position { return m.cursor }

// SetMessage sets the status line message until the next call.
func (m *Model) SetMessage(format string, args ...interface{}) {
	m.message = fmt.Sprintf(format, args...)
}

// Bounds implements jump.Viewport.
func (m *Model) Bounds() (int, int) {
	count := m.doc.LineCount()
	if count == 0 {
		return 1, 0
	}
	return m.top, min(m.top+m.height-1, count)
}

// Lines implements jump.Viewport.
func (m *Model) Lines(first, last int) []string {
	if first < 1 {
		first = 1
	}
	if last > m.doc.LineCount() {
		last = m.doc.LineCount()
	}
	if first > last {
		return nil
	}
	return append([]string(nil), m.doc.Lines[first-1:last]...)
}

// JumpTo implements jump.Navigator. The position the cursor leaves is kept
// as a back-reference for JumpBack.
func (m *Model) JumpTo(pos jump.Position) {
	m.pushBackRef(m.cursor)
	m.cursor = m.clamp(pos)
	m.scrollToCursor()
}

// JumpBack swaps the cursor with the most recent back-reference, so calling
// it twice returns to where it started. It reports false when there is none.
func (m *Model) JumpBack() bool {
	if len(m.backRefs) == 0 {
		return false
	}
	last := len(m.backRefs) - 1
	prev := m.backRefs[last]
	m.backRefs[last] = m.cursor
	m.cursor = m.clamp(prev)
	m.scrollToCursor()
	return true
}

// BackRefs returns the recorded back-references, oldest first.
func (m *Model) BackRefs() []jump.Position {
	return append([]jump.Position(nil), m.backRefs...)
}

func (m *Model) pushBackRef(pos jump.Position) {
	m.backRefs = append(m.backRefs, pos)
	if len(m.backRefs) > maxBackRefs {
		m.backRefs = m.backRefs[len(m.backRefs)-maxBackRefs:]
	}
}

// MoveLines moves the cursor n lines down (negative: up), keeping the column
// where the target line allows it.
func (m *Model) MoveLines(n int) {
	m.cursor = m.clamp(jump.Position{Line: m.cursor.Line + n, Col: m.cursor.Col})
	m.scrollToCursor()
}

// MoveChars moves the cursor n characters right (negative: left) within the line.
func (m *Model) MoveChars(n int) {
	line := m.doc.Line(m.cursor.Line)
	offset := m.cursor.Col - 1
	for ; n > 0 && offset < len(line); n-- {
		_, size := utf8.DecodeRuneInString(line[offset:])
		if offset+size >= len(line) {
			break
		}
		offset += size
	}
	for ; n < 0 && offset > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(line[:offset])
		offset -= size
	}
	m.cursor.Col = offset + 1
}

// Page scrolls by n screens (negative: up) and moves the cursor with it.
func (m *Model) Page(n int) {
	m.scrollBy(n * m.height)
}

// HalfPage scrolls by half a screen.
func (m *Model) HalfPage(n int) {
	step := m.height / 2
	if step < 1 {
		step = 1
	}
	m.scrollBy(n * step)
}

func (m *Model) scrollBy(rows int) {
	m.top = m.clampTop(m.top + rows)
	m.cursor = m.clamp(jump.Position{Line: m.cursor.Line + rows, Col: m.cursor.Col})
	m.scrollToCursor()
}

// GotoLine moves to the start of line n, clamped to the document.
func (m *Model) GotoLine(n int) {
	m.cursor = m.clamp(jump.Position{Line: n, Col: 1})
	m.scrollToCursor()
}

// GotoLast moves to the last line.
func (m *Model) GotoLast() {
	m.GotoLine(m.doc.LineCount())
}

func (m *Model) clamp(pos jump.Position) jump.Position {
	count := m.doc.LineCount()
	if count == 0 {
		return jump.Position{Line: 1, Col: 1}
	}
	pos.Line = max(1, min(pos.Line, count))
	line := m.doc.Line(pos.Line)
	switch {
	case line == "" || pos.Col < 1:
		pos.Col = 1
	case pos.Col > len(line):
		_, size := utf8.DecodeLastRuneInString(line)
		pos.Col = len(line) - size + 1
	default:
		for pos.Col > 1 && !utf8.RuneStart(line[pos.Col-1]) {
			pos.Col--
		}
	}
	return pos
}

func (m *Model) clampTop(top int) int {
	maxTop := max(1, m.doc.LineCount()-m.height+1)
	return max(1, min(top, maxTop))
}

func (m *Model) scrollToCursor() {
	if m.cursor.Line < m.top {
		m.top = m.cursor.Line
	}
	if m.cursor.Line > m.top+m.height-1 {
		m.top = m.cursor.Line - m.height + 1
	}
	m.top = m.clampTop(m.top)
}

// Frame snapshots what should be on screen.
func (m *Model) Frame() Frame {
	first, last := m.Bounds()
	return Frame{
		Top:    m.top,
		Lines:  m.Lines(first, last),
		Cursor: m.cursor,
		Status: m.statusLine(),
	}
}

func (m *Model) statusLine() string {
	name := m.doc.Path
	if name == "" {
		name = "[no name]"
	}
	status := fmt.Sprintf("%s  %d:%d  %d lines", name, m.cursor.Line, m.cursor.Col, m.doc.LineCount())
	if m.message != "" {
		status += "  " + m.message
	}
	return status
}
