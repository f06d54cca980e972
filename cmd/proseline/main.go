// Package main is the entry point for the proseline editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/proseline/internal/app"
	"github.com/dshills/proseline/internal/logging"
	"github.com/dshills/proseline/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "inspect":
			return runInspect(args[1:], stdout, stderr)
		case "select":
			return runSelect(args[1:], stdout, stderr)
		}
	}
	return runEditor(args, stderr)
}

func runEditor(args []string, stderr io.Writer) int {
	opts, code, ok := parseFlags(args, stderr)
	if !ok {
		return code
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		term.Shutdown()
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		application.Shutdown()
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags returns ok=false when the program should exit with code.
func parseFlags(args []string, stderr io.Writer) (app.Options, int, bool) {
	var opts app.Options
	var handlerPaths string
	var showVersion bool

	fs := flag.NewFlagSet("proseline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.SchemaPath, "schema", "", "Schema spec file (.yaml, .yml, .toml or .json)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.StringVar(&handlerPaths, "handlers", "", "Comma-separated Lua handler directories")
	fs.BoolVar(&opts.NoHandlers, "no-handlers", false, "Do not load Lua handlers")
	fs.BoolVar(&opts.SaveOnExit, "save", false, "Write the snapshot back on exit")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "proseline - structured rich-text editor\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  proseline [options] [snapshot.json]\n")
		fmt.Fprintf(stderr, "  proseline inspect [-query path] snapshot.json\n")
		fmt.Fprintf(stderr, "  proseline select -start n [-end n] snapshot.json\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nKeys: Ctrl+Q quits.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showVersion {
		fmt.Fprintf(stderr, "proseline %s\n", version)
		fmt.Fprintf(stderr, "Commit: %s\n", commit)
		fmt.Fprintf(stderr, "Built: %s\n", date)
		return opts, 0, false
	}

	if opts.LogLevel != "" {
		if _, ok := logging.ParseLevel(opts.LogLevel); !ok {
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			return opts, 1, false
		}
	}

	for _, p := range strings.Split(handlerPaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opts.HandlerPaths = append(opts.HandlerPaths, p)
		}
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.SnapshotPath = fs.Arg(0)
	default:
		fmt.Fprintf(stderr, "Error: expected at most one snapshot file, got %d\n", fs.NArg())
		return opts, 2, false
	}
	return opts, 0, true
}
