// Package main is the entry point for the textobj command.
//
// textobj resolves a user-defined delimiter text object at a position in a
// file, the way an editor would for a key sequence such as "i$".
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidwall/match"

	"github.com/dshills/textobjects/internal/app"
	"github.com/dshills/textobjects/internal/config/notify"
	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/input/vim"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// configEnv names the environment variable holding the default config path.
const configEnv = "TEXTOBJ_CONFIG"

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoMatch = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	app app.Options

	file     string
	lang     string
	pos      string
	keys     string
	list     bool
	filter   string
	watch    bool
	metrics  bool
	showVers bool
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "add" {
		return runAdd(args[1:], stdout, stderr)
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	if opts.showVers {
		fmt.Fprintf(stdout, "textobj %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return exitError
	}
	defer application.Shutdown()

	if opts.list {
		listCommands(stdout, application, opts.filter)
		return exitOK
	}

	if opts.file == "" || opts.keys == "" {
		fmt.Fprintf(stderr, "Error: -file and -keys are required (or use -list)\n")
		return exitError
	}

	pos, err := buffer.ParsePoint(opts.pos)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	keys := vim.ParseKeys(opts.keys)

	resolve := func() int {
		doc, err := app.OpenDocument(opts.file, opts.lang)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		m, err := application.Resolve(keys, doc, pos)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		printMovement(stdout, doc, pos, m, isTerminal(stdout))
		if m.Failed {
			return exitNoMatch
		}
		return exitOK
	}

	code := resolve()
	if opts.metrics {
		printMetrics(stdout, application)
	}
	if !opts.watch {
		return code
	}

	sub := application.Notifier().Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			fmt.Fprintf(stdout, "-- reloaded %s\n", c.Path)
			resolve()
		}
	})
	defer sub.Unsubscribe()

	if err := application.Watch(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	for _, path := range application.Watching() {
		fmt.Fprintf(stdout, "-- watching %s\n", path)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	<-signals

	return code
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("textobj", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaultConfig := os.Getenv(configEnv)
	fs.StringVar(&opts.app.ConfigPath, "config", defaultConfig, "Path to text object configuration (.toml, .yaml, .json, .lua)")
	fs.StringVar(&opts.app.ConfigPath, "c", defaultConfig, "Path to text object configuration (shorthand)")
	fs.StringVar(&opts.app.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.file, "file", "", "File to resolve in")
	fs.StringVar(&opts.file, "f", "", "File to resolve in (shorthand)")
	fs.StringVar(&opts.lang, "lang", "", "Language identifier (default: detected from file name)")
	fs.StringVar(&opts.pos, "pos", "0:0", "Cursor position as line:column, 0-indexed")
	fs.StringVar(&opts.keys, "keys", "", `Key sequence, e.g. "i$" or "a <leader> m"`)
	fs.StringVar(&opts.keys, "k", "", "Key sequence (shorthand)")
	fs.BoolVar(&opts.list, "list", false, "List registered commands and exit")
	fs.StringVar(&opts.filter, "filter", "*", "Glob filter for -list command identifiers")
	fs.BoolVar(&opts.watch, "watch", false, "Resolve again whenever the configuration changes")
	fs.BoolVar(&opts.metrics, "metrics", false, "Print dispatch metrics")
	fs.BoolVar(&opts.app.DisablePanicRecovery, "no-recover", false, "Let a panicking handler crash instead of failing the resolution")
	fs.BoolVar(&opts.showVers, "version", false, "Show version information")
	fs.BoolVar(&opts.showVers, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textobj - resolve user-defined delimiter text objects\n\n")
		fmt.Fprintf(stderr, "Usage: textobj [options]\n")
		fmt.Fprintf(stderr, "       textobj add [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textobj -c objects.toml -f notes.md -pos 3:10 -keys 'i$'\n")
		fmt.Fprintf(stderr, "  textobj -c objects.toml -list -filter 'textobject.inside.*'\n")
		fmt.Fprintf(stderr, "  textobj add -settings settings.json -keys '$' -open '$' -close '$'\n")
		fmt.Fprintf(stderr, "\nThe %s environment variable sets the default -config.\n", configEnv)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch opts.app.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		return nil, errors.New("invalid log level")
	}
	opts.app.EnableMetrics = opts.metrics

	return opts, nil
}

func listCommands(w io.Writer, application *app.Application, pattern string) {
	for _, id := range application.Commands() {
		if !match.Match(id, pattern) {
			continue
		}
		cmd, ok := application.Command(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", vim.FormatKeys(cmd.Keys), id)
	}
}

func printMetrics(w io.Writer, application *app.Application) {
	m := application.Metrics()
	if m == nil {
		return
	}
	fmt.Fprintf(w, "dispatches=%d failures=%d panics=%d avg=%s\n",
		m.TotalDispatches(), m.TotalFailures(), m.TotalPanics(), m.AverageDuration())
}
