package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/kk-code-lab/jumpstep/internal/debuglog"
	"github.com/kk-code-lab/jumpstep/internal/document"
	"github.com/kk-code-lab/jumpstep/internal/jump"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
	"github.com/kk-code-lab/jumpstep/internal/view"
)

// Application represents the running viewer.
type Application struct {
	host       host.Host
	model      *view.Model
	engine     *jump.Engine
	shouldQuit bool
}

// NewApplication wires a document, a host and a configuration source.
func NewApplication(doc *document.Document, h host.Host, config jump.ConfigSource) *Application {
	model := view.NewModel(doc)
	engine := jump.NewEngine(config, model, h, h, model)
	engine.SetReporter(func(err error) {
		debuglog.Error("jump", err)
	})
	return &Application{
		host:   h,
		model:  model,
		engine: engine,
	}
}

// Close releases the terminal.
func (app *Application) Close() error {
	return app.host.Close()
}

// Model exposes the viewer state.
func (app *Application) Model() *view.Model {
	return app.model
}

// Run processes events until the user quits or input ends.
func (app *Application) Run() error {
	for !app.shouldQuit {
		if err := app.render(); err != nil {
			return err
		}
		ev, err := app.host.NextEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		app.handleEvent(ev)
	}
	return nil
}

func (app *Application) render() error {
	_, h := app.host.Size()
	app.model.SetHeight(h - 1)
	return app.host.Draw(app.model.Frame())
}

// Jump runs one label-jump session and reports the outcome on the status line.
func (app *Application) Jump() {
	if err := app.render(); err != nil {
		debuglog.Error("render before jump", err)
	}
	res, err := app.engine.Run()
	if err != nil {
		debuglog.Error("jump", err)
		app.model.SetMessage("jump: %v", err)
		return
	}
	debuglog.Printf("jump outcome=%s line=%d target=%s", res.Outcome, res.Line, res.Target.Pos)
	app.model.SetMessage("%s", outcomeMessage(res))
}

func outcomeMessage(res jump.Result) string {
	switch res.Outcome {
	case jump.OutcomeResolved:
		return fmt.Sprintf("jumped to %q at %s", res.Target.Text, res.Target.Pos)
	case jump.OutcomeAborted:
		return "jump cancelled"
	default:
		return "nothing to jump to"
	}
}
