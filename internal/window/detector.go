// Package window resolves the identifier of the currently focused
// window, caching the answer so the hot input path does not pay a
// process spawn per keystroke.
package window

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/1broseidon/keymapd/internal/asuser"
)

// DefaultTTL bounds staleness of the cached window identifier. Focus
// rarely changes faster than typing cadence, so 100ms trades acceptable
// staleness for not spawning the detection command on every key.
const DefaultTTL = 100 * time.Millisecond

// commandTimeout caps a single detection run. A detector slower than
// this would stall the input path beyond what a keystroke can absorb.
const commandTimeout = 100 * time.Millisecond

// Detector memoises a focused-window query. It is owned by the single
// event-processing goroutine and is not safe for concurrent use.
type Detector struct {
	command string
	ttl     time.Duration
	logger  *slog.Logger

	now   func() time.Time
	fetch func() string

	cached    string
	fetchedAt time.Time
}

// NewDetector builds a detector. An empty command selects the built-in
// chain: swaymsg, then hyprctl, then the X11 active window.
func NewDetector(command string, logger *slog.Logger) *Detector {
	d := &Detector{
		command: command,
		ttl:     DefaultTTL,
		logger:  logger,
		now:     time.Now,
	}
	if command != "" {
		d.fetch = d.runCommand
	} else {
		chain := &builtinChain{x11: &x11Detector{logger: logger}}
		d.fetch = chain.detect
	}
	return d
}

// Current returns the focused window identifier, or "" when detection
// fails. A failed fetch still refreshes the cache timestamp so a broken
// detector is retried at TTL cadence rather than per keystroke.
func (d *Detector) Current() string {
	if !d.fetchedAt.IsZero() && d.now().Sub(d.fetchedAt) < d.ttl {
		return d.cached
	}
	d.cached = d.fetch()
	d.fetchedAt = d.now()
	return d.cached
}

func (d *Detector) runCommand() string {
	out, err := runShell(d.command)
	if err != nil {
		d.logger.Debug("window detection command failed", "command", d.command, "error", err)
		return ""
	}
	return trimWindowID(out)
}

// runShell executes a detection command line through the user's shell,
// re-wrapped for the original user when running as root.
func runShell(cmdline string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	argv := asuser.Command(cmdline)
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// trimWindowID strips surrounding whitespace and one trailing colon,
// which several compositor utilities append to the window class.
func trimWindowID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}
