package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/kk-code-lab/jumpstep/internal/jump"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
	"github.com/kk-code-lab/jumpstep/internal/view"
	xterm "golang.org/x/term"
)

// Host draws with plain ANSI escape sequences on a raw-mode terminal. It is
// the fallback for terminals tcell cannot drive.
type Host struct {
	input       *os.File
	output      io.Writer
	reader      *bufio.Reader
	writer      *bufio.Writer
	restoreTerm *xterm.State
	sizeFn      func() (int, int, error)
	width       int
	height      int
	theme       host.ColorTheme
	layer       *host.Layer
	tabWidth    int
	frame       view.Frame
}

// Open puts the controlling terminal in raw mode and switches to the
// alternate screen.
func Open(tabWidth int) (*Host, error) {
	var in, out *os.File
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		if runtime.GOOS != "windows" {
			return nil, err
		}
		in, out = os.Stdin, os.Stdout
	} else {
		in, out = tty, tty
	}

	h := newHost(in, out, tabWidth)
	h.input = in
	h.sizeFn = func() (int, int, error) { return terminalSize(in) }

	rawState, err := xterm.MakeRaw(int(in.Fd()))
	if err != nil {
		h.closeInput()
		return nil, err
	}
	h.restoreTerm = rawState
	h.writeString("\x1b[?1049h")
	h.writeString("\x1b[?7l")
	return h, nil
}

func newHost(in io.Reader, out io.Writer, tabWidth int) *Host {
	return &Host{
		output:   out,
		reader:   bufio.NewReader(in),
		writer:   bufio.NewWriter(out),
		sizeFn:   func() (int, int, error) { return 80, 24, nil },
		width:    80,
		height:   24,
		theme:    host.DefaultColorTheme(),
		layer:    host.NewLayer(),
		tabWidth: tabWidth,
	}
}

// Close restores the terminal.
func (h *Host) Close() error {
	h.writeString("\x1b[0m")
	h.writeString("\x1b[?7h")
	h.writeString("\x1b[?25h")
	h.writeString("\x1b[?1049l")
	var err error
	if h.writer != nil {
		err = h.writer.Flush()
	}
	if h.input != nil && h.restoreTerm != nil {
		_ = xterm.Restore(int(h.input.Fd()), h.restoreTerm)
	}
	h.closeInput()
	return err
}

func (h *Host) closeInput() {
	if h.input != nil && h.input.Name() == "/dev/tty" {
		_ = h.input.Close()
	}
}

func (h *Host) writeString(s string) {
	switch {
	case h.writer != nil:
		_, _ = h.writer.WriteString(s)
	case h.output != nil:
		_, _ = fmt.Fprint(h.output, s)
	}
}

func (h *Host) printf(format string, args ...interface{}) {
	h.writeString(fmt.Sprintf(format, args...))
}

func (h *Host) updateSize() {
	if h.sizeFn == nil {
		return
	}
	width, height, err := h.sizeFn()
	if err == nil && width > 0 && height > 0 {
		h.width = width
		h.height = height
	}
}

func (h *Host) Size() (int, int) {
	h.updateSize()
	return h.width, h.height
}

// Draw implements host.Host.
func (h *Host) Draw(frame view.Frame) error {
	h.frame = frame
	return h.paint()
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
	return h.paint()
}

func (h *Host) paint() error {
	h.updateSize()
	canvas := host.Compose(h.frame, h.layer, h.theme, h.tabWidth, h.width, h.height)

	h.writeString("\x1b[?25l")
	for y, row := range canvas.Rows {
		h.drawRow(y+1, row)
	}
	h.drawRow(h.height, canvas.Status)
	h.writeString("\x1b[0m")
	if canvas.CursorVisible && h.layer.Len() == 0 {
		h.printf("\x1b[%d;%dH", canvas.CursorY+1, canvas.CursorX+1)
		h.writeString("\x1b[?25h")
	}
	if h.writer != nil {
		return h.writer.Flush()
	}
	return nil
}

func (h *Host) drawRow(row int, glyphs []host.Glyph) {
	h.printf("\x1b[%d;1H", row)
	current := ""
	for _, g := range glyphs {
		if g.Width == 0 {
			continue
		}
		if sgr := styleSGR(g.Style); sgr != current {
			h.writeString(sgr)
			current = sgr
		}
		h.writeString(g.Text)
	}
}

// NextEvent implements host.Host. Resizes are noticed on the next paint, so
// only key events are reported.
func (h *Host) NextEvent() (host.Event, error) {
	return h.readKeyEvent()
}

// ReadKey implements jump.KeySource.
func (h *Host) ReadKey() (rune, bool, error) {
	ev, err := h.readKeyEvent()
	if err != nil {
		return 0, false, err
	}
	r, ok := ev.KeyRune()
	return r, ok, nil
}

var errNoReader = errors.New("no terminal input available")
