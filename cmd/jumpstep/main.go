package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/jumpstep/internal/app"
	"github.com/kk-code-lab/jumpstep/internal/config"
	"github.com/kk-code-lab/jumpstep/internal/debuglog"
	"github.com/kk-code-lab/jumpstep/internal/document"
)

func printHelp() {
	fmt.Print(`jumpstep - Terminal text viewer with label jumps

USAGE:
    jumpstep [OPTIONS] FILE

OPTIONS:
    -h, --help               Show this help message and exit
    -c, --config PATH        Read settings from PATH
    -b, --backend BACKEND    Terminal backend: auto, tcell or ansi

KEYS:
    s, Space     Jump: pick a line label, then a word label
    Ctrl-O, ` + "`" + `    Jump back
    j/k/h/l      Move (arrows work too)
    q, Esc       Quit
`)
}

var errHelp = errors.New("help requested")

type options struct {
	configPath string
	backend    apppkg.Backend
	file       string
}

func parseArgs(args []string) (options, error) {
	opts := options{backend: apppkg.BackendAuto}
	var backend string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return opts, errHelp
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a path", arg)
			}
			i++
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "-b" || arg == "--backend":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", arg)
			}
			i++
			backend = args[i]
		case strings.HasPrefix(arg, "--backend="):
			backend = strings.TrimPrefix(arg, "--backend=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown option %q", arg)
		default:
			if opts.file != "" {
				return opts, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.file = arg
		}
	}
	b, err := apppkg.ParseBackend(backend)
	if err != nil {
		return opts, err
	}
	opts.backend = b
	if opts.file == "" {
		return opts, errors.New("missing FILE")
	}
	return opts, nil
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	opts, err := parseArgs(os.Args[1:])
	if errors.Is(err, errHelp) {
		printHelp()
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jumpstep: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'jumpstep --help' for more information.")
		os.Exit(1)
	}

	configPath, err := config.ResolvePath(opts.configPath, os.Getenv, os.UserConfigDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jumpstep: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jumpstep: %v\n", err)
		os.Exit(1)
	}

	doc, err := document.Load(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jumpstep: %v\n", err)
		os.Exit(1)
	}

	h, backend, err := apppkg.OpenHost(opts.backend, os.Getenv, cfg.TabWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing terminal: %v\n", err)
		os.Exit(1)
	}
	debuglog.Printf("started file=%s backend=%s config=%s", doc.Path, backend, configPath)

	app := apppkg.NewApplication(doc, h, config.NewSource(configPath, os.Getenv))
	runErr := app.Run()
	_ = app.Close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "jumpstep: %v\n", runErr)
		os.Exit(1)
	}
}
