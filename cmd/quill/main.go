// Package main is the entry point for the quill editing engine CLI. It
// opens the given files, prints their stats, and watches the config file
// for live reload until interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quilled/quill/internal/config"
	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/logging"
	"github.com/quilled/quill/internal/manager"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	watch      bool
	files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Output: os.Stderr,
		Prefix: "quill",
	})

	mgr := manager.New(log,
		engine.WithTabWidth(cfg.TabWidth),
		engine.WithUndoBudget(cfg.UndoBudgetBytes),
		engine.WithCoalesceWindow(cfg.CoalesceWindow()),
	)

	for _, path := range opts.files {
		if err := mgr.Open(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		err := mgr.With(path, func(doc *engine.Document) error {
			fmt.Printf("%s: %d lines, %d chars\n", path, doc.LineCount(), doc.Len())
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if !opts.watch {
		return 0
	}

	watcher, err := config.NewWatcher(opts.configPath, log, func(cfg config.Config) {
		log.Info("config updated: tab_width=%d log_level=%s", cfg.TabWidth, cfg.LogLevel)
		log.SetLevel(logging.ParseLevel(cfg.LogLevel))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to watch config: %v\n", err)
		return 1
	}
	defer watcher.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	if unsaved := mgr.UnsavedPaths(); len(unsaved) > 0 {
		log.Warn("discarding unsaved changes in %v", unsaved)
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "quill.toml", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "quill.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.watch, "watch", false, "Keep running and reload config on change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quill - multi-cursor text editing engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Quill %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		switch opts.logLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			os.Exit(1)
		}
	}

	opts.files = flag.Args()
	return opts
}
