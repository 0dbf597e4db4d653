// Package debuglog appends timestamped lines to a file when JUMPSTEP_DEBUG=1.
// The viewer owns the terminal, so nothing is ever written to stderr.
package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const defaultFile = "jumpstep.log"

var (
	enabled = os.Getenv("JUMPSTEP_DEBUG") == "1"
	path    = envOr("JUMPSTEP_DEBUG_FILE", defaultFile)
	mu      sync.Mutex
	now     = time.Now
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Printf appends one formatted line to the debug file.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	timestamp := now().Format(time.RFC3339Nano)
	_, _ = fmt.Fprintf(f, "%s "+format+"\n", append([]interface{}{timestamp}, args...)...)
	_ = f.Close()
}

// Error logs err when it is non-nil.
func Error(context string, err error) {
	if err == nil {
		return
	}
	Printf("%s: %v", context, err)
}

// Configure overrides the environment settings. It returns a function that
// restores the previous values, for tests.
func Configure(on bool, file string) func() {
	mu.Lock()
	defer mu.Unlock()
	prevEnabled, prevPath := enabled, path
	enabled, path = on, file
	return func() {
		mu.Lock()
		defer mu.Unlock()
		enabled, path = prevEnabled, prevPath
	}
}
