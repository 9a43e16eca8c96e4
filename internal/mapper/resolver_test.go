package mapper

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/holoplot/go-evdev"

	"github.com/1broseidon/keymapd/internal/config"
	"github.com/1broseidon/keymapd/internal/keys"
)

func buildRules(t *testing.T, cfg *config.Config) *Ruleset {
	t.Helper()
	return Build(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolve_IdentityLaw(t *testing.T) {
	rs := buildRules(t, config.Default())
	for _, edge := range []keys.Edge{keys.EdgeDown, keys.EdgeUp, keys.EdgeRepeat} {
		act := rs.Resolve(evdev.KEY_J, edge, "firefox")
		if act.Kind != Passthrough || act.Key != evdev.KEY_J {
			t.Fatalf("edge %v: got %v, want passthrough(j)", edge, act)
		}
	}
}

func TestResolve_GlobalRemapSwap(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings: map[string]string{"i": "o", "o": "i"},
	})

	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "")
	if act.Kind != Remap || act.Key != evdev.KEY_O {
		t.Fatalf("Down(i): got %v, want remap(o)", act)
	}
	act = rs.Resolve(evdev.KEY_O, keys.EdgeDown, "")
	if act.Kind != Remap || act.Key != evdev.KEY_I {
		t.Fatalf("Down(o): got %v, want remap(i)", act)
	}
	// Remaps preserve the edge on Up as well.
	act = rs.Resolve(evdev.KEY_I, keys.EdgeUp, "")
	if act.Kind != Remap || act.Key != evdev.KEY_O {
		t.Fatalf("Up(i): got %v, want remap(o)", act)
	}
}

func TestResolve_CommandFiresOnDownOnly(t *testing.T) {
	rs := buildRules(t, &config.Config{
		CommandMappings: map[string]string{"f12": "notify-send hi"},
	})

	act := rs.Resolve(evdev.KEY_F12, keys.EdgeDown, "")
	if act.Kind != Command || act.Command != "notify-send hi" {
		t.Fatalf("Down(f12): got %v", act)
	}
	if act := rs.Resolve(evdev.KEY_F12, keys.EdgeUp, ""); act.Kind != Suppressed {
		t.Fatalf("Up(f12): got %v, want suppressed", act)
	}
	if act := rs.Resolve(evdev.KEY_F12, keys.EdgeRepeat, ""); act.Kind != Suppressed {
		t.Fatalf("Repeat(f12): got %v, want suppressed", act)
	}
}

func TestResolve_PrecedenceCommandBeatsRemap(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings:        map[string]string{"i": "o"},
		WindowCommandMappings: map[string]map[string]string{"firefox": {"i": "echo win"}},
	})

	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "firefox")
	if act.Kind != Command || act.Command != "echo win" {
		t.Fatalf("window command must beat global remap, got %v", act)
	}
}

func TestResolve_GlobalCommandBeatsWindowRemap(t *testing.T) {
	rs := buildRules(t, &config.Config{
		CommandMappings: map[string]string{"i": "echo global"},
		WindowMappings:  map[string]map[string]string{"firefox": {"i": "p"}},
	})

	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "firefox")
	if act.Kind != Command || act.Command != "echo global" {
		t.Fatalf("global command must beat window remap, got %v", act)
	}
}

func TestResolve_WindowRemapBeatsGlobalRemap(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings: map[string]string{"i": "o"},
		WindowMappings: map[string]map[string]string{"firefox": {"i": "p"}},
	})

	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "firefox")
	if act.Kind != Remap || act.Key != evdev.KEY_P {
		t.Fatalf("focused firefox: got %v, want remap(p)", act)
	}
	act = rs.Resolve(evdev.KEY_I, keys.EdgeDown, "other")
	if act.Kind != Remap || act.Key != evdev.KEY_O {
		t.Fatalf("other window: got %v, want remap(o)", act)
	}
}

func TestResolve_UnknownWindowFallsBackToGlobal(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings: map[string]string{"i": "o"},
		WindowMappings: map[string]map[string]string{"firefox": {"i": "p"}},
	})

	// Detection failed: window-specific rules must not match, globals do.
	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "")
	if act.Kind != Remap || act.Key != evdev.KEY_O {
		t.Fatalf("unknown window: got %v, want remap(o)", act)
	}

	rsOnlyWindow := buildRules(t, &config.Config{
		WindowMappings: map[string]map[string]string{"firefox": {"i": "p"}},
	})
	act = rsOnlyWindow.Resolve(evdev.KEY_I, keys.EdgeDown, "")
	if act.Kind != Passthrough || act.Key != evdev.KEY_I {
		t.Fatalf("unknown window without globals: got %v, want passthrough(i)", act)
	}
}

func TestResolve_CmdPrefixInRemapTable(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings: map[string]string{"f1": "cmd: playerctl play-pause"},
		WindowMappings: map[string]map[string]string{"krita": {"z": "CMD:krita-undo.sh"}},
	})

	act := rs.Resolve(evdev.KEY_F1, keys.EdgeDown, "")
	if act.Kind != Command || act.Command != "playerctl play-pause" {
		t.Fatalf("cmd: in global_mappings: got %v", act)
	}
	if act := rs.Resolve(evdev.KEY_F1, keys.EdgeUp, ""); act.Kind != Suppressed {
		t.Fatalf("cmd: target must suppress Up, got %v", act)
	}

	act = rs.Resolve(evdev.KEY_Z, keys.EdgeDown, "krita")
	if act.Kind != Command || act.Command != "krita-undo.sh" {
		t.Fatalf("CMD: in window_mappings: got %v", act)
	}
}

func TestResolve_WindowMatching(t *testing.T) {
	rs := buildRules(t, &config.Config{
		WindowMappings: map[string]map[string]string{"krita": {"i": "p"}},
	})

	for _, window := range []string{"krita", "Krita", "org.kde.krita"} {
		act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, window)
		if act.Kind != Remap || act.Key != evdev.KEY_P {
			t.Fatalf("window %q: got %v, want remap(p)", window, act)
		}
	}
	// Reverse substring direction: config names a full app id, the
	// compositor reports a short class.
	rs = buildRules(t, &config.Config{
		WindowMappings: map[string]map[string]string{"org.kde.krita": {"i": "p"}},
	})
	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "krita")
	if act.Kind != Remap || act.Key != evdev.KEY_P {
		t.Fatalf("reverse substring: got %v", act)
	}
}

func TestBuild_UnknownKeysDroppedWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rs := Build(&config.Config{
		GlobalMappings: map[string]string{
			"notakey": "o",
			"i":       "alsonotakey",
			"a":       "b",
		},
	}, logger)

	act := rs.Resolve(evdev.KEY_A, keys.EdgeDown, "")
	if act.Kind != Remap || act.Key != evdev.KEY_B {
		t.Fatalf("surviving entry: got %v", act)
	}
	if act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, ""); act.Kind != Passthrough {
		t.Fatalf("entry with bad target must be dropped, got %v", act)
	}
	logged := buf.String()
	if !strings.Contains(logged, "notakey") || !strings.Contains(logged, "alsonotakey") {
		t.Fatalf("expected warnings naming bad tokens, got: %s", logged)
	}
}

func TestBuild_DuplicateTriggerLastWriteWins(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	// "i" and "KEY_I" normalize to the same keycode. Sorted token order
	// makes "i" the last writer.
	rs := Build(&config.Config{
		GlobalMappings: map[string]string{"KEY_I": "o", "i": "p"},
	}, logger)

	act := rs.Resolve(evdev.KEY_I, keys.EdgeDown, "")
	if act.Kind != Remap || act.Key != evdev.KEY_P {
		t.Fatalf("duplicate resolution: got %v, want remap(p)", act)
	}
	if !strings.Contains(buf.String(), "duplicate trigger") {
		t.Fatalf("expected duplicate warning, got: %s", buf.String())
	}
}

func TestTargetCodes(t *testing.T) {
	rs := buildRules(t, &config.Config{
		GlobalMappings: map[string]string{"i": "o", "f1": "cmd:true"},
		WindowMappings: map[string]map[string]string{"firefox": {"a": "b"}},
	})

	codes := rs.TargetCodes()
	want := map[keys.Code]bool{evdev.KEY_O: true, evdev.KEY_B: true}
	if len(codes) != len(want) {
		t.Fatalf("TargetCodes = %v", codes)
	}
	for _, c := range codes {
		if !want[c] {
			t.Fatalf("unexpected target code %d", c)
		}
	}
}
