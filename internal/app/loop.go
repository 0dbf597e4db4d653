package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
)

func (app *Application) handleEvent(ev host.Event) {
	if ev.Kind != host.EventKey {
		return
	}
	if isQuitKey(ev) {
		app.shouldQuit = true
		return
	}
	app.model.SetMessage("")

	if r, ok := ev.KeyRune(); ok {
		app.handleRune(r)
		return
	}

	switch ev.Key {
	case tcell.KeyUp:
		app.model.MoveLines(-1)
	case tcell.KeyDown, tcell.KeyEnter:
		app.model.MoveLines(1)
	case tcell.KeyLeft:
		app.model.MoveChars(-1)
	case tcell.KeyRight:
		app.model.MoveChars(1)
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		app.model.Page(-1)
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		app.model.Page(1)
	case tcell.KeyCtrlU:
		app.model.HalfPage(-1)
	case tcell.KeyCtrlD:
		app.model.HalfPage(1)
	case tcell.KeyHome:
		app.model.GotoLine(1)
	case tcell.KeyEnd:
		app.model.GotoLast()
	case tcell.KeyCtrlO:
		app.jumpBack()
	}
}

func (app *Application) handleRune(r rune) {
	switch r {
	case 's', ' ':
		app.Jump()
	case 'k':
		app.model.MoveLines(-1)
	case 'j':
		app.model.MoveLines(1)
	case 'h':
		app.model.MoveChars(-1)
	case 'l':
		app.model.MoveChars(1)
	case 'g':
		app.model.GotoLine(1)
	case 'G':
		app.model.GotoLast()
	case '`':
		app.jumpBack()
	}
}

func (app *Application) jumpBack() {
	if !app.model.JumpBack() {
		app.model.SetMessage("no previous jump")
	}
}

func isQuitKey(ev host.Event) bool {
	if r, ok := ev.KeyRune(); ok {
		return r == 'q'
	}
	return ev.Key == tcell.KeyCtrlC || ev.Key == tcell.KeyEscape
}
