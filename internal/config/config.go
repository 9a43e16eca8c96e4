// Package config loads and validates the keymapd configuration file.
//
// The file is JSON with comment tolerance (.jsonc): // and /* */ comments
// are stripped before parsing. All sections are optional; a missing file
// yields the defaults.
package config

import (
	"fmt"
	"strings"
)

// Output methods. Exactly one is active for the process lifetime.
const (
	OutputUinput = "uinput"
	OutputDotool = "dotool"
)

// Config is the immutable merged configuration snapshot.
type Config struct {
	// OutputMethod selects the injection backend: "uinput" or "dotool".
	OutputMethod string `json:"output_method"`

	// WindowCommand is the external command used to detect the focused
	// window. Empty means the built-in detection chain.
	WindowCommand string `json:"window_command"`

	// GlobalMappings maps trigger keys to target keys. A target with a
	// "cmd:" prefix runs a shell command instead of remapping.
	GlobalMappings map[string]string `json:"global_mappings"`

	// WindowMappings maps window identifiers to per-window key remaps.
	WindowMappings map[string]map[string]string `json:"window_mappings"`

	// CommandMappings maps trigger keys to shell commands.
	CommandMappings map[string]string `json:"command_mappings"`

	// WindowCommandMappings maps window identifiers to per-window
	// command maps.
	WindowCommandMappings map[string]map[string]string `json:"window_command_mappings"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		OutputMethod: OutputUinput,
	}
}

// Validate checks the loaded values. Trigger and target key tokens are
// not validated here; unknown keys are warned about and dropped when the
// ruleset is built.
func (c *Config) Validate() error {
	switch c.OutputMethod {
	case OutputUinput, OutputDotool:
		return nil
	default:
		return fmt.Errorf("output_method: unknown value %q (want %q or %q)",
			c.OutputMethod, OutputUinput, OutputDotool)
	}
}

// ApplyOverrides applies CLI-supplied values on top of the file values.
// Empty override strings leave the file values in place.
func (c *Config) ApplyOverrides(outputMethod, windowCommand string) {
	if outputMethod != "" {
		c.OutputMethod = strings.ToLower(outputMethod)
	}
	if windowCommand != "" {
		c.WindowCommand = windowCommand
	}
}
