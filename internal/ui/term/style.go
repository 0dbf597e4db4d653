package term

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// styleSGR renders a tcell style as one SGR sequence, starting from a reset.
func styleSGR(style tcell.Style) string {
	fg, bg, attrs := style.Decompose()
	parts := []string{"0"}
	if attrs&tcell.AttrBold != 0 {
		parts = append(parts, "1")
	}
	if attrs&tcell.AttrDim != 0 {
		parts = append(parts, "2")
	}
	if attrs&tcell.AttrReverse != 0 {
		parts = append(parts, "7")
	}
	if c := colorSGR(fg, true); c != "" {
		parts = append(parts, c)
	}
	if c := colorSGR(bg, false); c != "" {
		parts = append(parts, c)
	}
	return "\x1b[" + strings.Join(parts, ";") + "m"
}

func colorSGR(c tcell.Color, foreground bool) string {
	prefix := "38"
	if !foreground {
		prefix = "48"
	}
	switch {
	case c == tcell.ColorDefault || !c.Valid():
		return ""
	case c.IsRGB():
		r, g, b := c.RGB()
		return prefix + ";2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
	default:
		return prefix + ";5;" + strconv.Itoa(int(c-tcell.ColorValid))
	}
}
