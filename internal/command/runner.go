// Package command launches the shell commands bound to keys. Commands
// run detached from the daemon: their lifetime, output, and exit status
// never feed back into event processing.
package command

import (
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/1broseidon/keymapd/internal/asuser"
)

// startCommand is replaced in tests to observe the argv without forking.
var startCommand = func(argv []string) (wait func() error, err error) {
	c := exec.Command(argv[0], argv[1:]...)
	c.Stdout = nil
	c.Stderr = nil
	c.Stdin = nil
	// A new session detaches the child from our controlling terminal and
	// keeps our signals from reaching it.
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := c.Start(); err != nil {
		return nil, err
	}
	return c.Wait, nil
}

// Runner fires commands without waiting for them.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts cmd through the user's shell and returns immediately. When
// the daemon runs as root the command is rewrapped to execute as the
// original desktop user. Spawn failures are logged, not returned: a
// broken binding must not stall the event loop.
func (r *Runner) Run(cmd string) {
	argv := asuser.Command(cmd)
	wait, err := startCommand(argv)
	if err != nil {
		r.logger.Warn("command failed to start", "command", cmd, "error", err)
		return
	}
	r.logger.Debug("command started", "command", cmd)
	// Reap the child when it exits so it never lingers as a zombie.
	go func() {
		if err := wait(); err != nil {
			r.logger.Debug("command exited", "command", cmd, "error", err)
		}
	}()
}
