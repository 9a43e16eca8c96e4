package output

import (
	"log/slog"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/keys"
)

// Null is the read-only backend. Every emit is logged and discarded,
// which makes it safe to observe a live keyboard without injecting
// anything back into the session.
type Null struct {
	logger *slog.Logger
}

func NewNull(logger *slog.Logger) *Null { return &Null{logger: logger} }

func (n *Null) Name() string { return "none" }

func (n *Null) Init() error { return nil }

func (n *Null) EmitKey(code keys.Code, edge keys.Edge) error {
	n.logger.Info("would emit", "key", keys.EmitName(code), "edge", edge.String())
	return nil
}

func (n *Null) PassRaw(*evdev.InputEvent) error { return nil }

func (n *Null) Shutdown() error { return nil }
