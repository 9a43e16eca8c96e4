// Package output turns resolved actions into externally observable key
// events. Two injection mechanisms exist with incompatible addressing:
// uinput speaks numeric keycodes through a virtual device, dotool
// speaks symbolic names over a pipe to a helper daemon. Both sit behind
// one Backend contract so the resolver never branches on the mechanism.
package output

import (
	"fmt"
	"log/slog"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/config"
	"github.com/1broseidon/keymapd/internal/keys"
)

// Backend is the action-execution contract. Implementations must be
// idempotent on repeated Shutdown.
type Backend interface {
	// Init acquires the injection resource (virtual device or helper
	// daemon). Called once before the event loop starts.
	Init() error
	// EmitKey injects one key transition.
	EmitKey(code keys.Code, edge keys.Edge) error
	// PassRaw forwards a non-key event when the mechanism supports it.
	PassRaw(ev *evdev.InputEvent) error
	Shutdown() error
	Name() string
}

// ForMethod selects the backend for a configured output method. The
// source device and remap target codes are needed by uinput to declare
// its capability set; dotool ignores them.
func ForMethod(method string, source *evdev.InputDevice, targets []keys.Code, logger *slog.Logger) (Backend, error) {
	switch method {
	case config.OutputUinput:
		return NewUinput(source, targets, logger), nil
	case config.OutputDotool:
		return NewDotool(logger), nil
	default:
		return nil, fmt.Errorf("unknown output method %q", method)
	}
}
