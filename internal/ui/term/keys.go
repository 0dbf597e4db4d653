package term

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
)

func keyEvent(k tcell.Key) host.Event {
	return host.Event{Kind: host.EventKey, Key: k}
}

func runeEvent(r rune) host.Event {
	return host.Event{Kind: host.EventKey, Key: tcell.KeyRune, Rune: r}
}

func (h *Host) readKeyEvent() (host.Event, error) {
	if h.reader == nil {
		return host.Event{}, errNoReader
	}
	b, err := h.reader.ReadByte()
	if err != nil {
		return host.Event{}, err
	}

	switch {
	case b == 0x1b:
		return h.parseEscapeSequence(), nil
	case b == '\r' || b == '\n':
		return keyEvent(tcell.KeyEnter), nil
	case b == 0x7f:
		return keyEvent(tcell.KeyBackspace2), nil
	case b < 0x20:
		// tcell numbers the control keys by their ASCII code.
		ev := keyEvent(tcell.Key(b))
		ev.Mod = tcell.ModCtrl
		return ev, nil
	case b < utf8.RuneSelf:
		return runeEvent(rune(b)), nil
	}

	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		next, err := h.reader.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, next)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return keyEvent(tcell.KeyNUL), nil
	}
	return runeEvent(r), nil
}

func (h *Host) parseEscapeSequence() host.Event {
	if h.reader.Buffered() == 0 {
		return keyEvent(tcell.KeyEscape)
	}
	next, err := h.reader.ReadByte()
	if err != nil {
		return keyEvent(tcell.KeyEscape)
	}

	switch next {
	case '[':
		return h.parseCSI()
	case 'O':
		final, err := h.reader.ReadByte()
		if err != nil {
			return keyEvent(tcell.KeyEscape)
		}
		switch final {
		case 'A':
			return keyEvent(tcell.KeyUp)
		case 'B':
			return keyEvent(tcell.KeyDown)
		case 'C':
			return keyEvent(tcell.KeyRight)
		case 'D':
			return keyEvent(tcell.KeyLeft)
		case 'H':
			return keyEvent(tcell.KeyHome)
		case 'F':
			return keyEvent(tcell.KeyEnd)
		default:
			return keyEvent(tcell.KeyNUL)
		}
	default:
		ev := runeEvent(rune(next))
		ev.Mod = tcell.ModAlt
		return ev
	}
}

func (h *Host) parseCSI() host.Event {
	seq := []byte{}
	for {
		b, err := h.reader.ReadByte()
		if err != nil {
			return keyEvent(tcell.KeyEscape)
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || b == '~' {
			break
		}
		if len(seq) > 5 {
			break
		}
	}

	switch seq[len(seq)-1] {
	case 'A':
		return keyEvent(tcell.KeyUp)
	case 'B':
		return keyEvent(tcell.KeyDown)
	case 'C':
		return keyEvent(tcell.KeyRight)
	case 'D':
		return keyEvent(tcell.KeyLeft)
	case 'H':
		return keyEvent(tcell.KeyHome)
	case 'F':
		return keyEvent(tcell.KeyEnd)
	case '~':
		switch string(seq[:len(seq)-1]) {
		case "3":
			return keyEvent(tcell.KeyDelete)
		case "5":
			return keyEvent(tcell.KeyPgUp)
		case "6":
			return keyEvent(tcell.KeyPgDn)
		case "1", "7":
			return keyEvent(tcell.KeyHome)
		case "4", "8":
			return keyEvent(tcell.KeyEnd)
		}
	}
	return keyEvent(tcell.KeyNUL)
}
