//go:build !windows && !plan9 && !js && !wasip1

package term

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminalSize(f *os.File) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
