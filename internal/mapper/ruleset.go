package mapper

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/1broseidon/keymapd/internal/config"
	"github.com/1broseidon/keymapd/internal/keys"
)

// target is a normalized mapping value: either a key to emit or a shell
// command (from a cmd:-prefixed config value).
type target struct {
	code    keys.Code
	command string
}

// Ruleset holds the four mapping tables keyed by normalized keycode.
// Built once at startup; config tokens that reference unknown keys are
// warned about and dropped, the rest of the config still loads.
type Ruleset struct {
	globalRemap map[keys.Code]target
	windowRemap map[string]map[keys.Code]target
	globalCmd   map[keys.Code]string
	windowCmd   map[string]map[keys.Code]string
}

// Build normalizes the config mapping tables through the key table.
// Duplicate triggers that normalize to the same keycode within one
// table resolve last-write-wins in sorted token order, with a warning.
func Build(cfg *config.Config, logger *slog.Logger) *Ruleset {
	b := builder{logger: logger}
	rs := &Ruleset{
		globalRemap: b.keyTable("global_mappings", cfg.GlobalMappings),
		windowRemap: make(map[string]map[keys.Code]target, len(cfg.WindowMappings)),
		globalCmd:   b.cmdTable("command_mappings", cfg.CommandMappings),
		windowCmd:   make(map[string]map[keys.Code]string, len(cfg.WindowCommandMappings)),
	}
	for win, table := range cfg.WindowMappings {
		rs.windowRemap[win] = b.keyTable("window_mappings."+win, table)
	}
	for win, table := range cfg.WindowCommandMappings {
		rs.windowCmd[win] = b.cmdTable("window_command_mappings."+win, table)
	}
	return rs
}

type builder struct {
	logger *slog.Logger
}

func (b builder) keyTable(section string, raw map[string]string) map[keys.Code]target {
	out := make(map[keys.Code]target, len(raw))
	for _, trigger := range sortedKeys(raw) {
		code, err := keys.Normalize(trigger)
		if err != nil {
			b.logger.Warn("dropping mapping with unknown trigger",
				"section", section, "trigger", trigger)
			continue
		}
		value := raw[trigger]
		var tgt target
		if cmd, ok := commandValue(value); ok {
			tgt = target{command: cmd}
		} else {
			tc, err := keys.Normalize(value)
			if err != nil {
				b.logger.Warn("dropping mapping with unknown target",
					"section", section, "trigger", trigger, "target", value)
				continue
			}
			tgt = target{code: tc}
		}
		if _, dup := out[code]; dup {
			b.logger.Warn("duplicate trigger in mapping table, last entry wins",
				"section", section, "trigger", trigger)
		}
		out[code] = tgt
	}
	return out
}

func (b builder) cmdTable(section string, raw map[string]string) map[keys.Code]string {
	out := make(map[keys.Code]string, len(raw))
	for _, trigger := range sortedKeys(raw) {
		code, err := keys.Normalize(trigger)
		if err != nil {
			b.logger.Warn("dropping command mapping with unknown trigger",
				"section", section, "trigger", trigger)
			continue
		}
		if _, dup := out[code]; dup {
			b.logger.Warn("duplicate trigger in command table, last entry wins",
				"section", section, "trigger", trigger)
		}
		out[code] = raw[trigger]
	}
	return out
}

// commandValue recognizes cmd:-prefixed mapping values.
func commandValue(v string) (string, bool) {
	if strings.HasPrefix(v, "cmd:") || strings.HasPrefix(v, "CMD:") {
		return strings.TrimSpace(v[4:]), true
	}
	return "", false
}

// TargetCodes returns every keycode a remap rule may emit, so the
// uinput backend can declare them as capabilities up front.
func (rs *Ruleset) TargetCodes() []keys.Code {
	seen := make(map[keys.Code]struct{})
	collect := func(table map[keys.Code]target) {
		for _, t := range table {
			if t.command == "" {
				seen[t.code] = struct{}{}
			}
		}
	}
	collect(rs.globalRemap)
	for _, table := range rs.windowRemap {
		collect(table)
	}
	out := make([]keys.Code, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
