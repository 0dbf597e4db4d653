package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kk-code-lab/jumpstep/internal/jump"
	"github.com/kk-code-lab/jumpstep/internal/textutil"
)

const (
	DefaultLabels = "asdfghjklqwertyuiopzxcvbnm"
	DefaultMatch  = `[\p{L}\p{N}_]+`

	envConfig = "JUMPSTEP_CONFIG"
	envLabels = "JUMPSTEP_LABELS"
)

// File mirrors config.toml.
type File struct {
	Labels   string   `toml:"labels"`
	Match    []string `toml:"match"`
	Filter   []string `toml:"filter"`
	TabWidth int      `toml:"tab_width"`
}

// Config is a validated, compiled configuration.
type Config struct {
	Alphabet jump.Alphabet
	Patterns jump.Patterns
	TabWidth int
}

// Settings returns the part of the configuration the jump engine needs.
func (c Config) Settings() jump.Settings {
	return jump.Settings{Alphabet: c.Alphabet, Patterns: c.Patterns}
}

// Defaults returns the configuration used when no file exists.
func Defaults() File {
	return File{
		Labels:   DefaultLabels,
		Match:    []string{DefaultMatch},
		TabWidth: textutil.DefaultTabWidth,
	}
}

// Parse decodes TOML on top of the defaults. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Parse(data []byte) (File, error) {
	f := Defaults()
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	return f, nil
}

// Compile validates the alphabet and compiles every pattern.
func (f File) Compile() (Config, error) {
	alphabet, err := jump.ParseAlphabet(f.Labels)
	if err != nil {
		return Config{}, fmt.Errorf("labels: %w", err)
	}
	patterns, err := jump.CompilePatterns(f.Match, f.Filter)
	if err != nil {
		return Config{}, err
	}
	tabWidth := f.TabWidth
	if tabWidth <= 0 {
		tabWidth = textutil.DefaultTabWidth
	}
	return Config{Alphabet: alphabet, Patterns: patterns, TabWidth: tabWidth}, nil
}

// Load reads path (a missing file means defaults), applies environment
// overrides and compiles the result.
func Load(path string, getenv func(string) string) (Config, error) {
	f := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if f, err = Parse(data); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	if getenv != nil {
		if labels := getenv(envLabels); labels != "" {
			f.Labels = labels
		}
	}
	cfg, err := f.Compile()
	if err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePath picks the config file: an explicit path wins, then
// $JUMPSTEP_CONFIG, then jumpstep/config.toml under the user config dir.
func ResolvePath(explicit string, getenv func(string) string, userConfigDir func() (string, error)) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if getenv != nil {
		if p := getenv(envConfig); p != "" {
			return p, nil
		}
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "jumpstep", "config.toml"), nil
}

// Source re-reads the configuration on every Load so edits made while the
// viewer runs take effect on the next jump.
type Source struct {
	path   string
	getenv func(string) string
}

// NewSource returns a jump.ConfigSource backed by the file at path.
func NewSource(path string, getenv func(string) string) *Source {
	return &Source{path: path, getenv: getenv}
}

// Load implements jump.ConfigSource.
func (s *Source) Load() (jump.Settings, error) {
	cfg, err := Load(s.path, s.getenv)
	if err != nil {
		return jump.Settings{}, err
	}
	return cfg.Settings(), nil
}

// Path returns the file the source reads.
func (s *Source) Path() string {
	return s.path
}
