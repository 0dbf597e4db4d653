package host

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/jump"
	"github.com/kk-code-lab/jumpstep/internal/view"
)

// Host is a terminal back-end. Both implementations render the same Canvas
// and report keys in tcell's vocabulary.
type Host interface {
	jump.Renderer
	jump.KeySource

	// NextEvent blocks until the next key or resize.
	NextEvent() (Event, error)
	// Draw remembers frame and paints it together with the overlay layer.
	Draw(frame view.Frame) error
	// Size returns the terminal size in cells.
	Size() (width, height int)
	Close() error
}

type EventKind int

const (
	EventKey EventKind = iota
	EventResize
)

// Event is a key press or a terminal resize.
type Event struct {
	Kind EventKind
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// KeyRune reports the character of a plain character key.
func (e Event) KeyRune() (rune, bool) {
	if e.Kind != EventKey || e.Key != tcell.KeyRune {
		return 0, false
	}
	return e.Rune, true
}
