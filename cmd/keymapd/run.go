package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/command"
	"github.com/1broseidon/keymapd/internal/config"
	"github.com/1broseidon/keymapd/internal/daemon"
	"github.com/1broseidon/keymapd/internal/mapper"
	"github.com/1broseidon/keymapd/internal/output"
	"github.com/1broseidon/keymapd/internal/window"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keymapd run --device <path> [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Grab a keyboard device and remap its events according to the")
		fmt.Fprintln(os.Stderr, "configuration file. Runs in the foreground until SIGINT/SIGTERM.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}

	var (
		device        string
		configPath    string
		windowCommand string
		outputMethod  string
		noOutput      bool
		verbose       bool
		grab          bool
	)
	fs.StringVar(&device, "device", "", "Input device path (e.g. /dev/input/event3)")
	fs.StringVar(&device, "d", "", "Shorthand for --device")
	fs.StringVar(&configPath, "config", "", "Config file path (default: "+config.DefaultPath()+")")
	fs.StringVar(&configPath, "c", "", "Shorthand for --config")
	fs.StringVar(&windowCommand, "window-command", "", "Command printing the focused window identifier")
	fs.StringVar(&windowCommand, "w", "", "Shorthand for --window-command")
	fs.StringVar(&outputMethod, "output-method", "", "Output backend: uinput or dotool")
	fs.StringVar(&outputMethod, "o", "", "Shorthand for --output-method")
	fs.BoolVar(&noOutput, "no-output", false, "Read-only mode: log events, emit nothing")
	fs.BoolVar(&verbose, "verbose", false, "Debug logging of every event resolution")
	fs.BoolVar(&verbose, "v", false, "Shorthand for --verbose")
	fs.BoolVar(&grab, "grab", true, "Take exclusive hold of the device")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no positional arguments")
		fs.Usage()
		return 2
	}
	if device == "" {
		fmt.Fprintln(os.Stderr, "run requires --device (try 'keymapd list --pick')")
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, exists, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !exists {
		logger.Warn("config file not found, using defaults", "path", configPath)
	}
	cfg.ApplyOverrides(outputMethod, windowCommand)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	rules := mapper.Build(cfg, logger)

	dev, err := evdev.Open(device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", device, err)
		return 1
	}
	defer dev.Close()

	name, _ := dev.Name()
	logger.Info("device opened", "path", device, "name", name)

	if grab {
		if err := dev.Grab(); err != nil {
			// Without the grab the session sees every key twice, but the
			// remapped stream still works. Keep going with a warning.
			logger.Warn("exclusive grab failed, events will be duplicated", "error", err)
		} else {
			defer dev.Ungrab()
		}
	}

	var backend output.Backend
	if noOutput {
		backend = output.NewNull(logger)
	} else {
		backend, err = output.ForMethod(cfg.OutputMethod, dev, rules.TargetCodes(), logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	if err := backend.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "initialize %s backend: %v\n", backend.Name(), err)
		return 1
	}
	defer backend.Shutdown()

	loop := daemon.New(daemon.Config{
		Source:   dev,
		Backend:  backend,
		Rules:    rules,
		Windows:  window.NewDetector(cfg.WindowCommand, logger),
		Commands: command.NewRunner(logger),
		Logger:   logger,
		Verbose:  verbose,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		// ReadOne blocks with no timeout; closing the device is the only
		// way to unblock the loop.
		dev.Close()
	}()

	if err := loop.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
