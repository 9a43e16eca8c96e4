package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultPath returns the conventional config location,
// $XDG_CONFIG_HOME/keymapd/config.jsonc. Falls back to a relative path
// when no home directory can be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.jsonc"
	}
	return filepath.Join(dir, "keymapd", "config.jsonc")
}

// Load reads a config file. A missing file is not an error: the defaults
// are returned and exists is false so the caller can log a warning.
// Malformed JSON or an invalid field is a fatal ConfigError.
func Load(path string) (cfg *Config, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg = Default()
	dec := json.NewDecoder(strings.NewReader(string(jsonc.ToJSON(data))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, true, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.OutputMethod = strings.ToLower(strings.TrimSpace(cfg.OutputMethod))
	if cfg.OutputMethod == "" {
		cfg.OutputMethod = OutputUinput
	}

	if err := cfg.Validate(); err != nil {
		return nil, true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}
