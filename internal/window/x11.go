package window

import (
	"log/slog"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// x11Detector reads the EWMH active window over a lazily opened X
// connection. On Wayland-only sessions the connection attempt fails
// once and the detector stays inert.
type x11Detector struct {
	logger *slog.Logger
	xu     *xgbutil.XUtil
	failed bool
}

func (d *x11Detector) activeWindow() string {
	if d.xu == nil {
		if d.failed {
			return ""
		}
		xu, err := xgbutil.NewConn()
		if err != nil {
			d.failed = true
			d.logger.Debug("no X11 display for window detection", "error", err)
			return ""
		}
		d.xu = xu
	}

	active, err := ewmh.ActiveWindowGet(d.xu)
	if err != nil || active == 0 {
		return ""
	}
	if cls, err := icccm.WmClassGet(d.xu, active); err == nil && cls.Class != "" {
		return cls.Class
	}
	if name, err := ewmh.WmNameGet(d.xu, active); err == nil {
		return name
	}
	return ""
}
