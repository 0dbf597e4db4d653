//go:build windows || plan9 || js || wasip1

package term

import (
	"os"

	xterm "golang.org/x/term"
)

func terminalSize(f *os.File) (int, int, error) {
	return xterm.GetSize(int(f.Fd()))
}
