package jump

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrSessionActive is returned by Run while another session awaits input.
var ErrSessionActive = errors.New("jump session already active")

// State is the position of the engine in the selection state machine.
type State int32

const (
	StateIdle State = iota
	StateLinesShown
	StateAwaitingLineKey
	StateWordsShown
	StateAwaitingWordKey
	StateResolved
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLinesShown:
		return "lines-shown"
	case StateAwaitingLineKey:
		return "awaiting-line-key"
	case StateWordsShown:
		return "words-shown"
	case StateAwaitingWordKey:
		return "awaiting-word-key"
	case StateResolved:
		return "resolved"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Outcome summarises how a session ended.
type Outcome int

const (
	// OutcomeEmpty means there was nothing to label and no key was read.
	OutcomeEmpty Outcome = iota
	// OutcomeAborted means a key matched no label, or reading a key failed.
	OutcomeAborted
	// OutcomeResolved means the navigator was asked to jump to Target.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeAborted:
		return "aborted"
	case OutcomeResolved:
		return "resolved"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished session. Line is set once a line was chosen,
// Target only when Outcome is OutcomeResolved.
type Result struct {
	Outcome Outcome
	Line    int
	Target  Target
}

// Engine runs label-jump sessions against a set of collaborators.
type Engine struct {
	config   ConfigSource
	viewport Viewport
	renderer Renderer
	keys     KeySource
	nav      Navigator
	report   func(error)
	state    atomic.Int32
}

// NewEngine wires an engine to its collaborators.
func NewEngine(config ConfigSource, viewport Viewport, renderer Renderer, keys KeySource, nav Navigator) *Engine {
	return &Engine{
		config:   config,
		viewport: viewport,
		renderer: renderer,
		keys:     keys,
		nav:      nav,
		report:   func(error) {},
	}
}

// SetReporter installs the callback that receives overlay failures. It is
// called at most once per session.
func (e *Engine) SetReporter(fn func(error)) {
	if fn == nil {
		fn = func(error) {}
	}
	e.report = fn
}

// State returns the current state. It is safe to call from any goroutine.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Active reports whether a session is in progress.
func (e *Engine) Active() bool {
	return e.State() != StateIdle
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// Run performs one full two-keystroke session. It blocks in at most two
// ReadKey calls. Every overlay it creates is cleared before it returns.
func (e *Engine) Run() (Result, error) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateLinesShown)) {
		return Result{}, ErrSessionActive
	}
	defer e.setState(StateIdle)

	settings, err := e.config.Load()
	if err != nil {
		return Result{}, fmt.Errorf("load jump settings: %w", err)
	}

	s := &session{
		engine:   e,
		settings: settings,
		overlays: newOverlaySet(e.renderer),
	}
	defer s.close()

	return s.run()
}

type session struct {
	engine     *Engine
	settings   Settings
	overlays   *overlaySet
	first      int
	last       int
	words      []Word
	lineLabels []Labeled[int]
	targets    []Target
	closed     bool
}

func (s *session) run() (Result, error) {
	e := s.engine

	s.first, s.last = e.viewport.Bounds()
	if s.first > s.last {
		return Result{Outcome: OutcomeEmpty}, nil
	}
	s.words = Tokenize(s.first, e.viewport.Lines(s.first, s.last), s.settings.Patterns)
	if len(s.words) == 0 {
		return Result{Outcome: OutcomeEmpty}, nil
	}
	s.lineLabels = Assign(DistinctLines(s.words), s.settings.Alphabet)
	s.showLines()

	e.setState(StateAwaitingLineKey)
	key, ok, err := e.keys.ReadKey()
	s.overlays.clearLabels()
	s.overlays.flush()
	if err != nil {
		e.setState(StateAborted)
		return Result{Outcome: OutcomeAborted}, fmt.Errorf("read line key: %w", err)
	}
	line, found := resolve(s.lineLabels, key, ok)
	if !found {
		e.setState(StateAborted)
		return Result{Outcome: OutcomeAborted}, nil
	}

	e.setState(StateWordsShown)
	s.targets = buildTargets(WordsOnLine(s.words, line.Item), s.settings.Alphabet)
	if len(s.targets) == 0 {
		return Result{Outcome: OutcomeEmpty, Line: line.Item}, nil
	}
	s.showTargets()

	e.setState(StateAwaitingWordKey)
	key, ok, err = e.keys.ReadKey()
	if err != nil {
		e.setState(StateAborted)
		return Result{Outcome: OutcomeAborted, Line: line.Item}, fmt.Errorf("read word key: %w", err)
	}
	target, found := findTarget(s.targets, key, ok)
	if !found {
		e.setState(StateAborted)
		return Result{Outcome: OutcomeAborted, Line: line.Item}, nil
	}

	e.nav.JumpTo(target.Pos)
	e.setState(StateResolved)
	return Result{Outcome: OutcomeResolved, Line: line.Item, Target: target}, nil
}

func (s *session) showLines() {
	for line := s.first; line <= s.last; line++ {
		s.overlays.shade(line)
	}
	for _, l := range s.lineLabels {
		words := WordsOnLine(s.words, l.Item)
		s.overlays.show(words[0].Pos, l.Label, StyleLabel)
	}
	s.overlays.flush()
}

func (s *session) showTargets() {
	for i, t := range s.targets {
		style := StyleSubLabel
		if i == 0 {
			style = StyleLabel
		}
		s.overlays.show(t.Pos, t.Label, style)
	}
	s.overlays.flush()
}

// close clears whatever is still on screen and reports collaborator failures
// once. It runs on every exit path of Run, including panics.
func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.overlays.pending() > 0 {
		s.overlays.clearEverything()
		s.overlays.flush()
	}
	if err := s.overlays.err(); err != nil {
		s.engine.report(fmt.Errorf("jump overlays: %w", err))
	}
}

func resolve(lines []Labeled[int], key rune, ok bool) (Labeled[int], bool) {
	if !ok {
		return Labeled[int]{}, false
	}
	return Lookup(lines, key)
}

func buildTargets(words []Word, a Alphabet) []Target {
	labeled := Assign(words, a)
	targets := make([]Target, len(labeled))
	for i, l := range labeled {
		targets[i] = Target{Word: l.Item, Label: l.Label}
	}
	return targets
}

func findTarget(targets []Target, key rune, ok bool) (Target, bool) {
	if !ok {
		return Target{}, false
	}
	for _, t := range targets {
		if t.Label == key {
			return t, true
		}
	}
	return Target{}, false
}
