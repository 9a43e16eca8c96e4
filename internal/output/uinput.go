package output

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/keys"
)

const virtualDeviceName = "keymapd-virtual"

// Uinput injects events through a virtual input device created at Init.
// It operates purely in keycode space and needs the privilege to create
// uinput devices.
type Uinput struct {
	source  *evdev.InputDevice
	targets []keys.Code
	logger  *slog.Logger

	dev *evdev.InputDevice
}

func NewUinput(source *evdev.InputDevice, targets []keys.Code, logger *slog.Logger) *Uinput {
	return &Uinput{source: source, targets: targets, logger: logger}
}

func (u *Uinput) Name() string { return "uinput" }

// Init creates the virtual device. Its key capabilities are the source
// device's keys plus every remap target, so any event the resolver can
// produce is emittable.
func (u *Uinput) Init() error {
	codes := capabilityCodes(u.source.CapableEvents(evdev.EV_KEY), u.targets)
	if len(codes) == 0 {
		return fmt.Errorf("source device reports no key capabilities")
	}

	dev, err := evdev.CreateDevice(virtualDeviceName, evdev.InputID{
		BusType: 0x03,
		Vendor:  0x1b05,
		Product: 0x0001,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
	})
	if err != nil {
		return fmt.Errorf("create uinput device: %w", err)
	}
	u.dev = dev
	u.logger.Debug("created virtual device", "name", virtualDeviceName, "keys", len(codes))
	return nil
}

// capabilityCodes merges the source key set with the remap targets,
// deduplicated and sorted.
func capabilityCodes(source []evdev.EvCode, targets []keys.Code) []evdev.EvCode {
	seen := make(map[evdev.EvCode]struct{}, len(source)+len(targets))
	for _, c := range source {
		seen[c] = struct{}{}
	}
	for _, c := range targets {
		seen[evdev.EvCode(c)] = struct{}{}
	}
	out := make([]evdev.EvCode, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EmitKey writes the key event followed by a synchronization report, as
// the kernel expects from real hardware.
func (u *Uinput) EmitKey(code keys.Code, edge keys.Edge) error {
	if u.dev == nil {
		return fmt.Errorf("uinput backend not initialized")
	}
	if err := u.dev.WriteOne(&evdev.InputEvent{
		Type:  evdev.EV_KEY,
		Code:  evdev.EvCode(code),
		Value: int32(edge),
	}); err != nil {
		return fmt.Errorf("write key event: %w", err)
	}
	if err := u.dev.WriteOne(&evdev.InputEvent{
		Type: evdev.EV_SYN,
		Code: evdev.SYN_REPORT,
	}); err != nil {
		return fmt.Errorf("write syn event: %w", err)
	}
	return nil
}

// PassRaw forwards non-key events (syn, misc) verbatim so the virtual
// device behaves like the grabbed hardware for everything not remapped.
func (u *Uinput) PassRaw(ev *evdev.InputEvent) error {
	if u.dev == nil {
		return nil
	}
	return u.dev.WriteOne(ev)
}

func (u *Uinput) Shutdown() error {
	if u.dev == nil {
		return nil
	}
	err := u.dev.Close()
	u.dev = nil
	return err
}
