package jump

import "fmt"

// Position addresses a character in the buffer. Line is 1-based, Col is the
// 1-based byte offset of the character within its line.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Word is one token found in the viewport.
type Word struct {
	Text string
	Pos  Position
}

// Target is a word carrying the label that selects it in the current session.
type Target struct {
	Word
	Label rune
}

// StyleClass tells a renderer how to present an overlay.
type StyleClass int

const (
	StyleLabel StyleClass = iota
	StyleSubLabel
	StyleShade
)

func (s StyleClass) String() string {
	switch s {
	case StyleLabel:
		return "label"
	case StyleSubLabel:
		return "sublabel"
	case StyleShade:
		return "shade"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ShadePriority is the priority passed to Renderer.Shade for viewport shading.
const ShadePriority = 10
