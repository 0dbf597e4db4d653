package jump

import (
	"errors"
	"strings"
	"testing"
)

type fakeViewport struct {
	first int
	lines []string
}

func (v *fakeViewport) Bounds() (int, int) {
	return v.first, v.first + len(v.lines) - 1
}

func (v *fakeViewport) Lines(first, last int) []string {
	return append([]string(nil), v.lines[first-v.first:last-v.first+1]...)
}

type overlay struct {
	pos   Position
	label rune
	style StyleClass
	shade bool
}

type fakeRenderer struct {
	next      Handle
	live      map[Handle]overlay
	shown     []overlay
	flushes   int
	clears    int
	failShow  error
	failClear error
	onClear   func(Handle)
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: map[Handle]overlay{}}
}

func (r *fakeRenderer) Show(pos Position, label rune, style StyleClass) (Handle, error) {
	if r.failShow != nil {
		return 0, r.failShow
	}
	r.next++
	o := overlay{pos: pos, label: label, style: style}
	r.live[r.next] = o
	r.shown = append(r.shown, o)
	return r.next, nil
}

func (r *fakeRenderer) Shade(line, priority int) (Handle, error) {
	r.next++
	r.live[r.next] = overlay{pos: Position{Line: line}, shade: true}
	return r.next, nil
}

func (r *fakeRenderer) Clear(h Handle) error {
	r.clears++
	if r.onClear != nil {
		r.onClear(h)
	}
	delete(r.live, h)
	return r.failClear
}

func (r *fakeRenderer) Flush() error {
	r.flushes++
	return nil
}

func (r *fakeRenderer) labels() map[rune]overlay {
	out := map[rune]overlay{}
	for _, o := range r.live {
		if !o.shade {
			out[o.label] = o
		}
	}
	return out
}

type keyPress struct {
	r   rune
	ok  bool
	err error
}

type fakeKeys struct {
	presses []keyPress
	reads   int
	onRead  func(n int)
}

func keys(runes ...rune) *fakeKeys {
	k := &fakeKeys{}
	for _, r := range runes {
		k.presses = append(k.presses, keyPress{r: r, ok: true})
	}
	return k
}

func (k *fakeKeys) ReadKey() (rune, bool, error) {
	k.reads++
	if k.onRead != nil {
		k.onRead(k.reads)
	}
	if len(k.presses) == 0 {
		return 0, false, errors.New("no more keys")
	}
	p := k.presses[0]
	k.presses = k.presses[1:]
	return p.r, p.ok, p.err
}

type fakeNav struct {
	jumps []Position
}

func (n *fakeNav) JumpTo(pos Position) {
	n.jumps = append(n.jumps, pos)
}

type harness struct {
	engine   *Engine
	renderer *fakeRenderer
	keys     *fakeKeys
	nav      *fakeNav
	reports  []error
}

func newHarness(t *testing.T, lines []string, alphabet string, k *fakeKeys) *harness {
	t.Helper()
	settings := Settings{
		Alphabet: Alphabet(alphabet),
		Patterns: mustPatterns(t, []string{`\w+`}, nil),
	}
	h := &harness{renderer: newFakeRenderer(), keys: k, nav: &fakeNav{}}
	h.engine = NewEngine(StaticConfig(settings), &fakeViewport{first: 1, lines: lines}, h.renderer, k, h.nav)
	h.engine.SetReporter(func(err error) { h.reports = append(h.reports, err) })
	return h
}

func TestRunScenarioLineLabelsSkipEmptyLines(t *testing.T) {
	k := keys('a', 'a')
	h := newHarness(t, []string{"one", "", "three"}, "ab", k)

	var phaseOne map[rune]overlay
	k.onRead = func(n int) {
		if n == 1 {
			phaseOne = h.renderer.labels()
		}
	}

	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(phaseOne) != 2 {
		t.Fatalf("expected two line labels, got %+v", phaseOne)
	}
	if phaseOne['a'].pos.Line != 1 || phaseOne['b'].pos.Line != 3 {
		t.Fatalf("expected a->line1 b->line3, got %+v", phaseOne)
	}
	if res.Line != 1 {
		t.Fatalf("expected line 1 to be chosen, got %d", res.Line)
	}
}

func TestRunScenarioWordSelection(t *testing.T) {
	k := keys('a', 'b')
	h := newHarness(t, []string{"foo bar"}, "ab", k)

	var phaseTwo map[rune]overlay
	k.onRead = func(n int) {
		if n == 2 {
			phaseTwo = h.renderer.labels()
		}
	}

	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if phaseTwo['a'].pos != (Position{Line: 1, Col: 1}) || phaseTwo['b'].pos != (Position{Line: 1, Col: 5}) {
		t.Fatalf("unexpected phase two labels %+v", phaseTwo)
	}
	if phaseTwo['a'].style != StyleLabel || phaseTwo['b'].style != StyleSubLabel {
		t.Fatalf("expected first target highlighted, got %+v", phaseTwo)
	}
	if res.Outcome != OutcomeResolved {
		t.Fatalf("expected resolved outcome, got %v", res.Outcome)
	}
	want := Target{Word: Word{Text: "bar", Pos: Position{Line: 1, Col: 5}}, Label: 'b'}
	if res.Target != want {
		t.Fatalf("target = %+v, want %+v", res.Target, want)
	}
	if len(h.nav.jumps) != 1 || h.nav.jumps[0] != want.Pos {
		t.Fatalf("expected exactly one jump to %v, got %v", want.Pos, h.nav.jumps)
	}
	if len(h.renderer.live) != 0 {
		t.Fatalf("expected no overlays left, got %+v", h.renderer.live)
	}
}

func TestRunAbortsOnUnmatchedKey(t *testing.T) {
	tests := []struct {
		name  string
		keys  *fakeKeys
		reads int
	}{
		{"line phase", keys('z'), 1},
		{"word phase", keys('a', 'z'), 2},
		{"null key", &fakeKeys{presses: []keyPress{{ok: false}}}, 1},
		{"case mismatch", keys('A'), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, []string{"foo bar", "baz"}, "ab", tt.keys)

			res, err := h.engine.Run()
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Outcome != OutcomeAborted {
				t.Fatalf("expected abort, got %v", res.Outcome)
			}
			if tt.keys.reads != tt.reads {
				t.Fatalf("expected %d reads, got %d", tt.reads, tt.keys.reads)
			}
			if len(h.nav.jumps) != 0 {
				t.Fatalf("expected no navigation, got %v", h.nav.jumps)
			}
			if len(h.renderer.live) != 0 {
				t.Fatalf("expected all overlays cleared, got %+v", h.renderer.live)
			}
			if h.engine.State() != StateIdle {
				t.Fatalf("expected idle state, got %v", h.engine.State())
			}
		})
	}
}

func TestRunExcessLinesAreUnreachable(t *testing.T) {
	k := keys('c')
	h := newHarness(t, []string{"one", "two", "three"}, "ab", k)

	var labeled map[rune]overlay
	k.onRead = func(int) { labeled = h.renderer.labels() }

	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(labeled) != 2 {
		t.Fatalf("expected only two labeled lines, got %+v", labeled)
	}
	for _, o := range labeled {
		if o.pos.Line == 3 {
			t.Fatalf("line 3 should have no label")
		}
	}
	if res.Outcome != OutcomeAborted {
		t.Fatalf("expected abort, got %v", res.Outcome)
	}
}

func TestRunEmptyViewportReadsNothing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no lines", nil},
		{"blank lines", []string{"", "  ", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := keys('a')
			h := newHarness(t, tt.lines, "ab", k)
			res, err := h.engine.Run()
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Outcome != OutcomeEmpty {
				t.Fatalf("expected empty outcome, got %v", res.Outcome)
			}
			if k.reads != 0 {
				t.Fatalf("expected no key reads, got %d", k.reads)
			}
			if len(h.renderer.live) != 0 {
				t.Fatalf("expected no overlays, got %+v", h.renderer.live)
			}
		})
	}
}

func TestRunLineOverlaysClearedBeforeWordPhase(t *testing.T) {
	k := keys('b', 'a')
	h := newHarness(t, []string{"foo", "bar baz qux"}, "ab", k)
	k.onRead = func(n int) {
		if n != 2 {
			return
		}
		var labels []overlay
		for _, o := range h.renderer.live {
			if !o.shade {
				labels = append(labels, o)
			}
		}
		if len(labels) != 2 {
			t.Fatalf("expected only the two word labels, got %+v", labels)
		}
		for _, o := range labels {
			if o.pos.Line != 2 {
				t.Fatalf("line-phase overlay survived into word phase: %+v", o)
			}
		}
	}
	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Target.Text != "bar" {
		t.Fatalf("expected jump to bar, got %+v", res.Target)
	}
}

func TestRunDuplicateWordsKeepBothLabels(t *testing.T) {
	k := keys('a', 'b')
	settings := Settings{
		Alphabet: Alphabet("abc"),
		Patterns: mustPatterns(t, []string{`\w+`, `[a-z]+`}, nil),
	}
	r := newFakeRenderer()
	nav := &fakeNav{}
	e := NewEngine(StaticConfig(settings), &fakeViewport{first: 1, lines: []string{"abc"}}, r, k, nav)

	var phaseTwo map[rune]overlay
	k.onRead = func(n int) {
		if n == 2 {
			phaseTwo = r.labels()
		}
	}
	res, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(phaseTwo) != 2 {
		t.Fatalf("expected both duplicates labeled, got %+v", phaseTwo)
	}
	if res.Outcome != OutcomeResolved || nav.jumps[0] != (Position{Line: 1, Col: 1}) {
		t.Fatalf("expected jump to 1:1, got %+v %v", res, nav.jumps)
	}
}

func TestRunRejectsReentry(t *testing.T) {
	k := keys('a', 'a')
	h := newHarness(t, []string{"foo"}, "a", k)

	var nestedErr error
	var observed State
	k.onRead = func(n int) {
		if n == 1 {
			observed = h.engine.State()
			_, nestedErr = h.engine.Run()
		}
	}
	if _, err := h.engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if observed != StateAwaitingLineKey {
		t.Fatalf("expected awaiting-line-key during first read, got %v", observed)
	}
	if !errors.Is(nestedErr, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", nestedErr)
	}
	if h.engine.Active() {
		t.Fatalf("engine should be idle after Run")
	}
}

func TestRunReadErrorStillCleansUp(t *testing.T) {
	boom := errors.New("tty closed")
	k := &fakeKeys{presses: []keyPress{{r: 'a', ok: true}, {err: boom}}}
	h := newHarness(t, []string{"foo bar"}, "ab", k)

	res, err := h.engine.Run()
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if res.Outcome != OutcomeAborted {
		t.Fatalf("expected abort, got %v", res.Outcome)
	}
	if len(h.renderer.live) != 0 {
		t.Fatalf("expected overlays cleared, got %+v", h.renderer.live)
	}
}

func TestRunPanicStillCleansUp(t *testing.T) {
	k := keys('a')
	h := newHarness(t, []string{"foo"}, "a", k)
	k.onRead = func(int) { panic("host exploded") }

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_, _ = h.engine.Run()
	}()

	if len(h.renderer.live) != 0 {
		t.Fatalf("expected overlays cleared after panic, got %+v", h.renderer.live)
	}
	if h.engine.State() != StateIdle {
		t.Fatalf("expected idle after panic, got %v", h.engine.State())
	}
}

func TestRunReportsCollaboratorFailuresOnce(t *testing.T) {
	k := keys('a', 'b')
	h := newHarness(t, []string{"foo bar"}, "ab", k)
	h.renderer.failClear = errors.New("overlay gone")

	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != OutcomeResolved {
		t.Fatalf("clear failures must not abort resolution, got %v", res.Outcome)
	}
	if len(h.reports) != 1 {
		t.Fatalf("expected a single report, got %d", len(h.reports))
	}
	if !strings.Contains(h.reports[0].Error(), "overlay gone") {
		t.Fatalf("unexpected report %v", h.reports[0])
	}
	if len(h.renderer.live) != 0 {
		t.Fatalf("every overlay should still have been cleared, got %+v", h.renderer.live)
	}
}

func TestRunShowFailureDoesNotAbort(t *testing.T) {
	k := keys('a', 'a')
	h := newHarness(t, []string{"foo"}, "a", k)
	h.renderer.failShow = errors.New("no popup")

	res, err := h.engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != OutcomeResolved {
		t.Fatalf("expected resolution despite render failure, got %v", res.Outcome)
	}
	if len(h.reports) != 1 {
		t.Fatalf("expected one report, got %d", len(h.reports))
	}
}

func TestRunConfigErrorSurfaces(t *testing.T) {
	bad := errors.New("bad pattern")
	r := newFakeRenderer()
	k := keys('a')
	e := NewEngine(failingConfig{err: bad}, &fakeViewport{first: 1, lines: []string{"foo"}}, r, k, &fakeNav{})

	if _, err := e.Run(); !errors.Is(err, bad) {
		t.Fatalf("expected config error, got %v", err)
	}
	if k.reads != 0 || len(r.live) != 0 {
		t.Fatalf("expected no reads and no overlays")
	}
	if e.Active() {
		t.Fatalf("engine should return to idle")
	}
}

type failingConfig struct{ err error }

func (c failingConfig) Load() (Settings, error) { return Settings{}, c.err }

func TestOverlayCleanupIsIdempotent(t *testing.T) {
	r := newFakeRenderer()
	o := newOverlaySet(r)
	o.show(Position{Line: 1, Col: 1}, 'a', StyleLabel)
	o.shade(1)

	o.clearEverything()
	clears := r.clears
	o.clearEverything()

	if r.clears != clears {
		t.Fatalf("second cleanup issued %d extra clears", r.clears-clears)
	}
	if len(r.live) != 0 || o.pending() != 0 {
		t.Fatalf("expected nothing left after cleanup")
	}
	if err := o.err(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
