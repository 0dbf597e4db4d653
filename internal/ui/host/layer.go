package host

import (
	"errors"
	"sort"

	"github.com/kk-code-lab/jumpstep/internal/jump"
)

// ErrInvalidPosition is returned for overlays outside the buffer's address space.
var ErrInvalidPosition = errors.New("overlay position out of range")

// Overlay is one label drawn over the text.
type Overlay struct {
	Handle jump.Handle
	Pos    jump.Position
	Label  rune
	Style  jump.StyleClass
}

type shade struct {
	line     int
	priority int
}

// Layer stores the overlays of a host. It implements the bookkeeping half of
// jump.Renderer; hosts add Flush. Not safe for concurrent use.
type Layer struct {
	next   jump.Handle
	labels map[jump.Handle]Overlay
	shades map[jump.Handle]shade
}

func NewLayer() *Layer {
	return &Layer{
		labels: make(map[jump.Handle]Overlay),
		shades: make(map[jump.Handle]shade),
	}
}

func (l *Layer) Show(pos jump.Position, label rune, style jump.StyleClass) (jump.Handle, error) {
	if pos.Line < 1 || pos.Col < 1 {
		return 0, ErrInvalidPosition
	}
	l.next++
	l.labels[l.next] = Overlay{Handle: l.next, Pos: pos, Label: label, Style: style}
	return l.next, nil
}

func (l *Layer) Shade(line, priority int) (jump.Handle, error) {
	if line < 1 {
		return 0, ErrInvalidPosition
	}
	l.next++
	l.shades[l.next] = shade{line: line, priority: priority}
	return l.next, nil
}

// Clear removes h. Unknown handles are ignored.
func (l *Layer) Clear(h jump.Handle) error {
	delete(l.labels, h)
	delete(l.shades, h)
	return nil
}

// Labels returns the live labels in creation order.
func (l *Layer) Labels() []Overlay {
	out := make([]Overlay, 0, len(l.labels))
	for _, o := range l.labels {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Shaded reports whether line carries shading.
func (l *Layer) Shaded(line int) bool {
	for _, s := range l.shades {
		if s.line == line {
			return true
		}
	}
	return false
}

// Len returns the number of live overlays, shading included.
func (l *Layer) Len() int {
	return len(l.labels) + len(l.shades)
}
