package screen

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/jump"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
	"github.com/kk-code-lab/jumpstep/internal/view"
)

// ErrScreenClosed is returned once the screen stops delivering events.
var ErrScreenClosed = errors.New("screen closed")

// Host draws through a tcell.Screen.
type Host struct {
	screen   tcell.Screen
	theme    host.ColorTheme
	layer    *host.Layer
	tabWidth int
	frame    view.Frame
}

// Open creates and initialises a terminal screen.
func Open(tabWidth int) (*Host, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return New(s, tabWidth), nil
}

// New wraps an initialised screen.
func New(s tcell.Screen, tabWidth int) *Host {
	return &Host{
		screen:   s,
		theme:    host.DefaultColorTheme(),
		layer:    host.NewLayer(),
		tabWidth: tabWidth,
	}
}

func (h *Host) Size() (int, int) {
	return h.screen.Size()
}

func (h *Host) Close() error {
	h.screen.Fini()
	return nil
}

// Draw implements host.Host.
func (h *Host) Draw(frame view.Frame) error {
	h.frame = frame
	h.paint()
	return nil
}

func (h *Host) Show(pos jump.Position, label rune, style jump.StyleClass) (jump.Handle, error) {
	return h.layer.Show(pos, label, style)
}

func (h *Host) Shade(line, priority int) (jump.Handle, error) {
	return h.layer.Shade(line, priority)
}

func (h *Host) Clear(handle jump.Handle) error {
	return h.layer.Clear(handle)
}

// Flush repaints the last frame with the current overlays.
func (h *Host) Flush() error {
	h.paint()
	return nil
}

func (h *Host) paint() {
	w, ht := h.screen.Size()
	canvas := host.Compose(h.frame, h.layer, h.theme, h.tabWidth, w, ht)

	h.screen.Clear()
	for y, row := range canvas.Rows {
		drawRow(h.screen, y, row)
	}
	drawRow(h.screen, ht-1, canvas.Status)
	if canvas.CursorVisible && h.layer.Len() == 0 {
		h.screen.ShowCursor(canvas.CursorX, canvas.CursorY)
	} else {
		h.screen.HideCursor()
	}
	h.screen.Show()
}

func drawRow(s tcell.Screen, y int, row []host.Glyph) {
	for x, g := range row {
		if g.Width == 0 {
			continue
		}
		runes := []rune(g.Text)
		if len(runes) == 0 {
			runes = []rune{' '}
		}
		s.SetContent(x, y, runes[0], runes[1:], g.Style)
	}
}

// NextEvent implements host.Host.
func (h *Host) NextEvent() (host.Event, error) {
	for {
		switch ev := h.screen.PollEvent().(type) {
		case nil:
			return host.Event{}, ErrScreenClosed
		case *tcell.EventResize:
			h.screen.Sync()
			return host.Event{Kind: host.EventResize}, nil
		case *tcell.EventKey:
			return host.Event{Kind: host.EventKey, Key: ev.Key(), Rune: ev.Rune(), Mod: ev.Modifiers()}, nil
		}
	}
}

// ReadKey implements jump.KeySource. Resizes repaint the current frame and
// overlays and keep waiting.
func (h *Host) ReadKey() (rune, bool, error) {
	for {
		ev, err := h.NextEvent()
		if err != nil {
			return 0, false, err
		}
		if ev.Kind == host.EventResize {
			h.paint()
			continue
		}
		r, ok := ev.KeyRune()
		return r, ok, nil
	}
}
