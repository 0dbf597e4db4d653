package app

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/jumpstep/internal/debuglog"
	"github.com/kk-code-lab/jumpstep/internal/ui/host"
	"github.com/kk-code-lab/jumpstep/internal/ui/screen"
	"github.com/kk-code-lab/jumpstep/internal/ui/term"
)

// Backend selects the terminal host.
type Backend string

const (
	BackendAuto  Backend = "auto"
	BackendTcell Backend = "tcell"
	BackendANSI  Backend = "ansi"
)

// ParseBackend validates a --backend value.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendTcell, BackendANSI:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want auto, tcell or ansi)", s)
	}
}

// detectBackend resolves BackendAuto from the environment: JUMPSTEP_BACKEND
// wins, a dumb terminal gets the ANSI host, everything else tcell.
func detectBackend(requested Backend, getenv func(string) string) Backend {
	if requested != BackendAuto && requested != "" {
		return requested
	}
	if b, err := ParseBackend(getenv("JUMPSTEP_BACKEND")); err == nil && b != BackendAuto {
		return b
	}
	if strings.EqualFold(getenv("TERM"), "dumb") {
		return BackendANSI
	}
	return BackendTcell
}

var (
	openTcell = func(tabWidth int) (host.Host, error) {
		h, err := screen.Open(tabWidth)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	openANSI = func(tabWidth int) (host.Host, error) {
		h, err := term.Open(tabWidth)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
)

// OpenHost opens the requested host. In auto mode a tcell failure falls back
// to the ANSI host.
func OpenHost(requested Backend, getenv func(string) string, tabWidth int) (host.Host, Backend, error) {
	backend := detectBackend(requested, getenv)
	if backend == BackendANSI {
		h, err := openANSI(tabWidth)
		return h, BackendANSI, err
	}
	h, err := openTcell(tabWidth)
	if err == nil {
		return h, BackendTcell, nil
	}
	if requested != BackendAuto {
		return nil, BackendTcell, err
	}
	debuglog.Printf("tcell unavailable, falling back to ansi: %v", err)
	h, ansiErr := openANSI(tabWidth)
	if ansiErr != nil {
		return nil, BackendANSI, fmt.Errorf("tcell: %v; ansi: %w", err, ansiErr)
	}
	return h, BackendANSI, nil
}
