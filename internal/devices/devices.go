// Package devices enumerates input devices and identifies keyboards.
package devices

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/holoplot/go-evdev"
)

// Info describes one input device node.
type Info struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Keyboard bool   `json:"keyboard"`
}

// listPaths is replaced in tests.
var listPaths = evdev.ListDevicePaths

// List returns all readable input devices, sorted by path. Devices that
// cannot be opened (usually a permissions problem) are logged and
// skipped rather than failing the whole listing.
func List(logger *slog.Logger) ([]Info, error) {
	paths, err := listPaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	infos := make([]Info, 0, len(paths))
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			logger.Debug("skipping unreadable device", "path", p.Path, "error", err)
			continue
		}
		name, err := dev.Name()
		if err != nil || name == "" {
			name = p.Name
		}
		infos = append(infos, Info{
			Path:     p.Path,
			Name:     name,
			Keyboard: isKeyboard(dev.CapableTypes()),
		})
		_ = dev.Close()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// Keyboards filters a device listing down to likely keyboards.
func Keyboards(infos []Info) []Info {
	out := make([]Info, 0, len(infos))
	for _, info := range infos {
		if info.Keyboard {
			out = append(out, info)
		}
	}
	return out
}

// isKeyboard reports whether a capability set looks like a real
// keyboard. Requiring both key events and autorepeat excludes mice,
// power buttons and other devices that expose a stray EV_KEY.
func isKeyboard(types []evdev.EvType) bool {
	var hasKey, hasRep bool
	for _, t := range types {
		switch t {
		case evdev.EV_KEY:
			hasKey = true
		case evdev.EV_REP:
			hasRep = true
		}
	}
	return hasKey && hasRep
}
