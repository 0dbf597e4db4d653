package host

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/jump"
)

// ColorTheme defines the viewer colors.
type ColorTheme struct {
	TextFg     tcell.Color
	ShadeFg    tcell.Color
	LabelFg    tcell.Color
	LabelBg    tcell.Color
	SubLabelFg tcell.Color
	SubLabelBg tcell.Color
	StatusFg   tcell.Color
	StatusBg   tcell.Color
}

// DefaultColorTheme returns the default color scheme.
func DefaultColorTheme() ColorTheme {
	return ColorTheme{
		TextFg:     tcell.ColorDefault,
		ShadeFg:    tcell.Color244, // dimmed text while labels are up
		LabelFg:    tcell.ColorWhite,
		LabelBg:    tcell.Color161,
		SubLabelFg: tcell.Color16,
		SubLabelBg: tcell.Color214,
		StatusFg:   tcell.ColorWhite,
		StatusBg:   tcell.Color33,
	}
}

func (t ColorTheme) TextStyle(shaded bool) tcell.Style {
	if shaded {
		return tcell.StyleDefault.Foreground(t.ShadeFg)
	}
	return tcell.StyleDefault.Foreground(t.TextFg)
}

func (t ColorTheme) OverlayStyle(class jump.StyleClass) tcell.Style {
	switch class {
	case jump.StyleSubLabel:
		return tcell.StyleDefault.Foreground(t.SubLabelFg).Background(t.SubLabelBg)
	case jump.StyleShade:
		return t.TextStyle(true)
	default:
		return tcell.StyleDefault.Foreground(t.LabelFg).Background(t.LabelBg).Bold(true)
	}
}

func (t ColorTheme) StatusStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(t.StatusFg).Background(t.StatusBg)
}
