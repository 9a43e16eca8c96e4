package mapper

import (
	"sort"
	"strings"

	"github.com/1broseidon/keymapd/internal/keys"
)

// Resolve maps one raw event to an action. Precedence, highest first:
// window command, global command, window remap (a cmd: target counts as
// a command), global remap, passthrough. A window override always beats
// a global rule and an explicit command always beats a remap at the
// same specificity.
func (rs *Ruleset) Resolve(code keys.Code, edge keys.Edge, window string) Action {
	if window != "" {
		if table, ok := matchWindow(window, rs.windowCmd); ok {
			if cmd, ok := table[code]; ok {
				return commandAction(cmd, edge)
			}
		}
	}
	if cmd, ok := rs.globalCmd[code]; ok {
		return commandAction(cmd, edge)
	}
	if window != "" {
		if table, ok := matchWindow(window, rs.windowRemap); ok {
			if t, ok := table[code]; ok {
				return targetAction(t, edge)
			}
		}
	}
	if t, ok := rs.globalRemap[code]; ok {
		return targetAction(t, edge)
	}
	return Action{Kind: Passthrough, Key: code}
}

// commandAction fires on the Down edge only; the Up and Repeat edges of
// a command-bound key are suppressed so the consumed binding does not
// leak a trailing key event.
func commandAction(cmd string, edge keys.Edge) Action {
	if edge == keys.EdgeDown {
		return Action{Kind: Command, Command: cmd}
	}
	return Action{Kind: Suppressed}
}

func targetAction(t target, edge keys.Edge) Action {
	if t.command != "" {
		return commandAction(t.command, edge)
	}
	return Action{Kind: Remap, Key: t.code}
}

// matchWindow finds the table entry for a reported window identifier:
// exact match, then case-insensitive, then substring in either
// direction (so "krita" matches "org.kde.krita"). Candidates are tried
// in sorted order so overlapping substring entries resolve
// deterministically.
func matchWindow[V any](window string, tables map[string]map[keys.Code]V) (map[keys.Code]V, bool) {
	if table, ok := tables[window]; ok {
		return table, true
	}
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	lower := strings.ToLower(window)
	for _, name := range names {
		if strings.ToLower(name) == lower {
			return tables[name], true
		}
	}
	for _, name := range names {
		nl := strings.ToLower(name)
		if strings.Contains(lower, nl) || strings.Contains(nl, lower) {
			return tables[name], true
		}
	}
	return nil, false
}
