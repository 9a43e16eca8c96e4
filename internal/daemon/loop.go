// Package daemon runs the event loop at the core of keymapd: read one
// event from the grabbed keyboard, resolve it against the rules for the
// focused window, hand the result to the output backend.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/keys"
	"github.com/1broseidon/keymapd/internal/mapper"
	"github.com/1broseidon/keymapd/internal/output"
)

// EventSource is the device read surface the loop consumes. Satisfied
// by *evdev.InputDevice.
type EventSource interface {
	ReadOne() (*evdev.InputEvent, error)
}

// Resolver maps a raw key event to an action.
type Resolver interface {
	Resolve(code keys.Code, edge keys.Edge, window string) mapper.Action
}

// WindowSource reports the currently focused window identifier, or ""
// when detection fails.
type WindowSource interface {
	Current() string
}

// CommandRunner fires a detached shell command.
type CommandRunner interface {
	Run(cmd string)
}

// Config holds the loop's collaborators.
type Config struct {
	Source   EventSource
	Backend  output.Backend
	Rules    Resolver
	Windows  WindowSource
	Commands CommandRunner
	Logger   *slog.Logger
	Verbose  bool
}

// Loop processes events until the context is cancelled or the source
// fails.
type Loop struct {
	source   EventSource
	backend  output.Backend
	rules    Resolver
	windows  WindowSource
	commands CommandRunner
	logger   *slog.Logger
	verbose  bool
}

func New(cfg Config) *Loop {
	return &Loop{
		source:   cfg.Source,
		backend:  cfg.Backend,
		rules:    cfg.Rules,
		windows:  cfg.Windows,
		commands: cfg.Commands,
		logger:   cfg.Logger,
		verbose:  cfg.Verbose,
	}
}

// Run blocks reading events. ReadOne has no timeout, so cancellation is
// delivered by closing the device: the resulting read error with a done
// context is a clean stop, any other read error is fatal.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("event loop started", "backend", l.backend.Name())

	for {
		ev, err := l.source.ReadOne()
		if err != nil {
			select {
			case <-ctx.Done():
				l.logger.Info("event loop stopped")
				return nil
			default:
				return fmt.Errorf("read input event: %w", err)
			}
		}
		if err := l.handle(ev); err != nil {
			l.logger.Warn("event not delivered", "error", err)
		}
	}
}

func (l *Loop) handle(ev *evdev.InputEvent) error {
	if ev.Type != evdev.EV_KEY {
		return l.backend.PassRaw(ev)
	}
	edge, ok := keys.EdgeFromValue(ev.Value)
	if !ok {
		// Unknown transition value from the driver; forward untouched.
		return l.backend.PassRaw(ev)
	}

	window := l.windows.Current()
	act := l.rules.Resolve(ev.Code, edge, window)

	if l.verbose {
		l.logger.Debug("resolved",
			"key", keys.EmitName(ev.Code),
			"edge", edge.String(),
			"window", window,
			"action", act.String())
	}

	switch act.Kind {
	case mapper.Passthrough, mapper.Remap:
		return l.backend.EmitKey(act.Key, edge)
	case mapper.Command:
		l.commands.Run(act.Command)
		return nil
	case mapper.Suppressed:
		return nil
	}
	return nil
}
