package jump

// Viewport exposes the visible part of the buffer.
type Viewport interface {
	// Bounds returns the first and last visible line, 1-based and inclusive.
	// first > last means nothing is visible.
	Bounds() (first, last int)
	// Lines returns the text of lines first..last inclusive.
	Lines(first, last int) []string
}

// Handle identifies one overlay created by a Renderer.
type Handle uint64

// Renderer draws transient overlays above the text without modifying it.
type Renderer interface {
	Show(pos Position, label rune, style StyleClass) (Handle, error)
	Shade(line, priority int) (Handle, error)
	// Clear removes an overlay. Clearing an unknown or already cleared handle
	// is a no-op.
	Clear(h Handle) error
	// Flush makes all pending overlay changes visible.
	Flush() error
}

// KeySource delivers single key presses. ReadKey blocks until a key arrives.
// ok is false for keys that carry no character (arrows, function keys); such
// keys never match a label.
type KeySource interface {
	ReadKey() (r rune, ok bool, err error)
}

// Navigator moves the cursor. Implementations record the current position as
// a back-reference before moving.
type Navigator interface {
	JumpTo(pos Position)
}

// Settings is the configuration read at the start of every session.
type Settings struct {
	Alphabet Alphabet
	Patterns Patterns
}

// ConfigSource supplies Settings. Load is called once per session so edits
// apply on the next trigger.
type ConfigSource interface {
	Load() (Settings, error)
}

// StaticConfig is a ConfigSource that always returns the same settings.
type StaticConfig Settings

func (c StaticConfig) Load() (Settings, error) {
	return Settings(c), nil
}
