package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func noEnv(string) string { return "" }

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), noEnv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Alphabet.String() != DefaultLabels {
		t.Fatalf("expected default labels, got %q", cfg.Alphabet)
	}
	if len(cfg.Patterns.Match) != 1 || len(cfg.Patterns.Filter) != 0 {
		t.Fatalf("unexpected default patterns %+v", cfg.Patterns)
	}
	if cfg.TabWidth != 4 {
		t.Fatalf("expected tab width 4, got %d", cfg.TabWidth)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
labels = "abc"
match = ['\w+', '[0-9]+']
filter = ['^.{2,}$']
tab_width = 8
`)
	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Alphabet.String() != "abc" {
		t.Fatalf("labels = %q", cfg.Alphabet)
	}
	if len(cfg.Patterns.Match) != 2 || len(cfg.Patterns.Filter) != 1 {
		t.Fatalf("unexpected patterns %+v", cfg.Patterns)
	}
	if cfg.TabWidth != 8 {
		t.Fatalf("tab width = %d", cfg.TabWidth)
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad match", `match = ['(']`, "match pattern 0"},
		{"bad filter", `filter = ['\w+', '[']`, "filter pattern 1"},
		{"duplicate labels", `labels = "aba"`, "repeated"},
		{"empty labels", `labels = ""`, "empty"},
		{"unknown key", `lables = "abc"`, "unknown keys lables"},
		{"bad toml", `labels = `, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), noEnv)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadEnvOverridesLabels(t *testing.T) {
	path := writeConfig(t, `labels = "abc"`)
	env := func(key string) string {
		if key == "JUMPSTEP_LABELS" {
			return "xyz"
		}
		return ""
	}
	cfg, err := Load(path, env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Alphabet.String() != "xyz" {
		t.Fatalf("expected env labels, got %q", cfg.Alphabet)
	}
}

func TestSourceReadsFreshOnEveryLoad(t *testing.T) {
	path := writeConfig(t, `labels = "ab"`)
	src := NewSource(path, noEnv)

	first, err := src.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.WriteFile(path, []byte(`labels = "xy"`), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	second, err := src.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.Alphabet.String() != "ab" || second.Alphabet.String() != "xy" {
		t.Fatalf("expected live edit to apply, got %q then %q", first.Alphabet, second.Alphabet)
	}
}

func TestResolvePath(t *testing.T) {
	dir := func() (string, error) { return "/home/me/.config", nil }
	env := func(key string) string {
		if key == "JUMPSTEP_CONFIG" {
			return "/etc/jumpstep.toml"
		}
		return ""
	}

	if got, _ := ResolvePath("/tmp/x.toml", env, dir); got != "/tmp/x.toml" {
		t.Fatalf("explicit path ignored, got %q", got)
	}
	if got, _ := ResolvePath("", env, dir); got != "/etc/jumpstep.toml" {
		t.Fatalf("env path ignored, got %q", got)
	}
	want := filepath.Join("/home/me/.config", "jumpstep", "config.toml")
	if got, _ := ResolvePath("", noEnv, dir); got != want {
		t.Fatalf("ResolvePath = %q, want %q", got, want)
	}

	boom := errors.New("no home")
	if _, err := ResolvePath("", noEnv, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
