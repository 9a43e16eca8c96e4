package window

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// builtinChain is the default detection used when no window_command is
// configured: wlroots-family compositors first (sway IPC), then
// Hyprland, then the X11 active window.
type builtinChain struct {
	x11 *x11Detector
}

func (c *builtinChain) detect() string {
	if out, err := runShell("swaymsg -t get_tree"); err == nil {
		if id := parseSwayTree([]byte(out)); id != "" {
			return id
		}
	}
	if out, err := runShell("hyprctl activewindow -j"); err == nil {
		if id := parseHyprWindow([]byte(out)); id != "" {
			return id
		}
	}
	return c.x11.activeWindow()
}

// swayNode is the subset of the sway/i3 layout tree needed to find the
// focused application.
type swayNode struct {
	AppID            string `json:"app_id"`
	Focused          bool   `json:"focused"`
	WindowProperties struct {
		Class string `json:"class"`
	} `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// parseSwayTree finds the focused node's app_id (native Wayland) or
// X11 class (XWayland) in a swaymsg -t get_tree dump.
func parseSwayTree(data []byte) string {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return ""
	}
	return focusedApp(&root)
}

func focusedApp(n *swayNode) string {
	if n.Focused {
		if n.AppID != "" {
			return n.AppID
		}
		return n.WindowProperties.Class
	}
	for i := range n.Nodes {
		if id := focusedApp(&n.Nodes[i]); id != "" {
			return id
		}
	}
	for i := range n.FloatingNodes {
		if id := focusedApp(&n.FloatingNodes[i]); id != "" {
			return id
		}
	}
	return ""
}

// parseHyprWindow extracts the window class from hyprctl activewindow -j.
func parseHyprWindow(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	return gjson.GetBytes(data, "class").String()
}
