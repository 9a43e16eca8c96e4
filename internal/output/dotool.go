package output

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"syscall"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/keys"
)

// dotoolSettleDelay gives a freshly spawned dotool instance time to
// create its own uinput devices before the first keydown reaches it.
const dotoolSettleDelay = 100 * time.Millisecond

// Dotool injects events by writing keydown/keyup lines to a persistent
// dotool child process. It operates in key-name space and works without
// device-creation privilege.
type Dotool struct {
	logger *slog.Logger

	// start spawns the helper and returns its control channel plus a
	// stop function. Replaced in tests.
	start func() (io.WriteCloser, func(), error)

	stdin   io.WriteCloser
	stop    func()
	pressed map[string]bool
}

func NewDotool(logger *slog.Logger) *Dotool {
	d := &Dotool{
		logger:  logger,
		pressed: make(map[string]bool),
	}
	d.start = d.spawn
	return d
}

func (d *Dotool) Name() string { return "dotool" }

func (d *Dotool) Init() error {
	if _, err := exec.LookPath("dotool"); err != nil {
		return fmt.Errorf("dotool not found in PATH (install from https://git.sr.ht/~geb/dotool): %w", err)
	}
	stdin, stop, err := d.start()
	if err != nil {
		return fmt.Errorf("start dotool: %w", err)
	}
	d.stdin = stdin
	d.stop = stop
	time.Sleep(dotoolSettleDelay)
	return nil
}

func (d *Dotool) spawn() (io.WriteCloser, func(), error) {
	cmd := exec.Command("dotool")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	stop := func() {
		_ = cmd.Process.Signal(syscall.SIGTERM)
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return stdin, stop, nil
}

// EmitKey writes a keydown/keyup line for the key's symbolic name. The
// pressed set guards against duplicate downs and ups for keys dotool
// never saw go down; repeats have no dotool verb and are dropped.
func (d *Dotool) EmitKey(code keys.Code, edge keys.Edge) error {
	if d.stdin == nil {
		return fmt.Errorf("dotool backend not running")
	}
	name := keys.EmitName(code)

	switch edge {
	case keys.EdgeDown:
		if d.pressed[name] {
			return nil
		}
		if err := d.writeLine("keydown " + name); err != nil {
			return err
		}
		d.pressed[name] = true
	case keys.EdgeUp:
		if !d.pressed[name] {
			return nil
		}
		if err := d.writeLine("keyup " + name); err != nil {
			return err
		}
		delete(d.pressed, name)
	case keys.EdgeRepeat:
		// dotool has no repeat verb; the compositor synthesizes repeats.
	}
	return nil
}

func (d *Dotool) writeLine(line string) error {
	if _, err := io.WriteString(d.stdin, line+"\n"); err != nil {
		// A broken pipe means the helper died; drop the channel so
		// subsequent emits fail fast instead of spamming writes.
		d.logger.Warn("dotool write failed", "error", err)
		d.stdin = nil
		return fmt.Errorf("write to dotool: %w", err)
	}
	return nil
}

// PassRaw is a no-op: dotool only understands key commands.
func (d *Dotool) PassRaw(*evdev.InputEvent) error { return nil }

func (d *Dotool) Shutdown() error {
	if d.stdin != nil {
		_ = d.stdin.Close()
		d.stdin = nil
	}
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	return nil
}
