// Package mapper resolves raw key events against the configured ruleset.
package mapper

import (
	"fmt"

	"github.com/1broseidon/keymapd/internal/keys"
)

// Kind discriminates resolved actions.
type Kind int

const (
	// Passthrough forwards the original key unchanged.
	Passthrough Kind = iota
	// Remap substitutes another key, preserving the edge.
	Remap
	// Command runs a shell command instead of emitting a key.
	Command
	// Suppressed emits nothing. Up/Repeat edges of command-bound keys
	// resolve to this so a consumed binding leaves no trailing events.
	Suppressed
)

// Action is the result of resolving one raw event. Computed fresh per
// event, never stored.
type Action struct {
	Kind    Kind
	Key     keys.Code
	Command string
}

func (a Action) String() string {
	switch a.Kind {
	case Passthrough:
		return fmt.Sprintf("passthrough(%s)", keys.EmitName(a.Key))
	case Remap:
		return fmt.Sprintf("remap(%s)", keys.EmitName(a.Key))
	case Command:
		return fmt.Sprintf("command(%s)", a.Command)
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}
