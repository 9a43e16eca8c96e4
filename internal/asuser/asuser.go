// Package asuser builds shell command invocations that run as the
// desktop user when the daemon itself runs as root. Reading an input
// device usually needs elevated privileges, but window detection and
// mapped commands must talk to the user's compositor session.
package asuser

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

// Injection points for tests.
var (
	geteuid    = os.Geteuid
	getenv     = os.Getenv
	lookupUser = user.Lookup
	lookupUID  = user.LookupId
	lookPath   = exec.LookPath
	pathExists = func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}
)

// Command returns the argv to execute cmd through a shell. When running
// as root with an identifiable original user, the command is wrapped in
// runuser (or su) with the session environment re-exported; otherwise it
// is a plain sh -c invocation.
func Command(cmd string) []string {
	if geteuid() != 0 {
		return []string{"sh", "-c", cmd}
	}
	username := OriginalUser()
	if username == "" {
		return []string{"sh", "-c", cmd}
	}

	full := envExports(username) + cmd
	if _, err := lookPath("runuser"); err == nil {
		return []string{"runuser", "-l", username, "-c", full}
	}
	return []string{"su", "-", username, "-c", full}
}

// OriginalUser resolves the desktop user behind a root invocation:
// SUDO_USER, then PKEXEC_UID, then the owner of the runtime dir in
// XDG_RUNTIME_DIR. Empty when none apply.
func OriginalUser() string {
	if u := getenv("SUDO_USER"); u != "" {
		return u
	}
	if uid := getenv("PKEXEC_UID"); uid != "" {
		if u, err := lookupUID(uid); err == nil {
			return u.Username
		}
	}
	if dir := getenv("XDG_RUNTIME_DIR"); strings.Contains(dir, "/run/user/") {
		uid := strings.SplitN(strings.TrimPrefix(dir, "/run/user/"), "/", 2)[0]
		if u, err := lookupUID(uid); err == nil {
			return u.Username
		}
	}
	return ""
}

// envExports builds the "export K=V;" prefix that recreates enough of
// the user's session environment for compositor utilities to work.
func envExports(username string) string {
	vars := make([][2]string, 0, 8)
	add := func(k, v string) { vars = append(vars, [2]string{k, v}) }

	u, err := lookupUser(username)
	if err != nil {
		return ""
	}
	add("HOME", u.HomeDir)
	add("USER", username)

	runtimeDir := fmt.Sprintf("/run/user/%s", u.Uid)
	if pathExists(runtimeDir) {
		add("XDG_RUNTIME_DIR", runtimeDir)
	}
	for _, k := range []string{"WAYLAND_DISPLAY", "DISPLAY", "XDG_SESSION_TYPE", "XDG_CURRENT_DESKTOP"} {
		if v := getenv(k); v != "" {
			add(k, v)
		}
	}
	if getenv("WAYLAND_DISPLAY") == "" && pathExists(filepath.Join(runtimeDir, "wayland-0")) {
		add("WAYLAND_DISPLAY", "wayland-0")
	}

	var b strings.Builder
	for _, kv := range vars {
		fmt.Fprintf(&b, "export %s=%q; ", kv[0], kv[1])
	}
	return b.String()
}
