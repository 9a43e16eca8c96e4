// Package keys provides the bidirectional mapping between kernel keycodes
// and the symbolic key names used in configs and by the dotool backend.
package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

// Code is a kernel-assigned keycode for a physical key.
type Code = evdev.EvCode

// ErrUnknownKey is returned when a code or name has no table entry.
var ErrUnknownKey = errors.New("unknown key")

// codeToName holds the canonical name for each supported keycode. The
// mapping is bijective: every name appears exactly once, so the
// name->code direction can be derived from it. Aliases (esc, control,
// meta, ...) live in nameAliases and only resolve in the name->code
// direction.
var codeToName = map[Code]string{
	evdev.KEY_A: "a", evdev.KEY_B: "b", evdev.KEY_C: "c", evdev.KEY_D: "d",
	evdev.KEY_E: "e", evdev.KEY_F: "f", evdev.KEY_G: "g", evdev.KEY_H: "h",
	evdev.KEY_I: "i", evdev.KEY_J: "j", evdev.KEY_K: "k", evdev.KEY_L: "l",
	evdev.KEY_M: "m", evdev.KEY_N: "n", evdev.KEY_O: "o", evdev.KEY_P: "p",
	evdev.KEY_Q: "q", evdev.KEY_R: "r", evdev.KEY_S: "s", evdev.KEY_T: "t",
	evdev.KEY_U: "u", evdev.KEY_V: "v", evdev.KEY_W: "w", evdev.KEY_X: "x",
	evdev.KEY_Y: "y", evdev.KEY_Z: "z",

	evdev.KEY_1: "1", evdev.KEY_2: "2", evdev.KEY_3: "3", evdev.KEY_4: "4",
	evdev.KEY_5: "5", evdev.KEY_6: "6", evdev.KEY_7: "7", evdev.KEY_8: "8",
	evdev.KEY_9: "9", evdev.KEY_0: "0",

	evdev.KEY_F1: "f1", evdev.KEY_F2: "f2", evdev.KEY_F3: "f3",
	evdev.KEY_F4: "f4", evdev.KEY_F5: "f5", evdev.KEY_F6: "f6",
	evdev.KEY_F7: "f7", evdev.KEY_F8: "f8", evdev.KEY_F9: "f9",
	evdev.KEY_F10: "f10", evdev.KEY_F11: "f11", evdev.KEY_F12: "f12",
	evdev.KEY_F13: "f13", evdev.KEY_F14: "f14", evdev.KEY_F15: "f15",
	evdev.KEY_F16: "f16", evdev.KEY_F17: "f17", evdev.KEY_F18: "f18",
	evdev.KEY_F19: "f19", evdev.KEY_F20: "f20", evdev.KEY_F21: "f21",
	evdev.KEY_F22: "f22", evdev.KEY_F23: "f23", evdev.KEY_F24: "f24",

	evdev.KEY_SPACE:     "space",
	evdev.KEY_ENTER:     "enter",
	evdev.KEY_TAB:       "tab",
	evdev.KEY_BACKSPACE: "backspace",
	evdev.KEY_ESC:       "escape",

	evdev.KEY_LEFTSHIFT:  "shift",
	evdev.KEY_RIGHTSHIFT: "rightshift",
	evdev.KEY_LEFTCTRL:   "ctrl",
	evdev.KEY_RIGHTCTRL:  "rightctrl",
	evdev.KEY_LEFTALT:    "alt",
	evdev.KEY_RIGHTALT:   "rightalt",
	evdev.KEY_LEFTMETA:   "super",
	evdev.KEY_RIGHTMETA:  "rightmeta",

	evdev.KEY_UP:       "up",
	evdev.KEY_DOWN:     "down",
	evdev.KEY_LEFT:     "left",
	evdev.KEY_RIGHT:    "right",
	evdev.KEY_HOME:     "home",
	evdev.KEY_END:      "end",
	evdev.KEY_PAGEUP:   "pageup",
	evdev.KEY_PAGEDOWN: "pagedown",
	evdev.KEY_DELETE:   "delete",
	evdev.KEY_INSERT:   "insert",

	evdev.KEY_MINUS:      "minus",
	evdev.KEY_EQUAL:      "equal",
	evdev.KEY_LEFTBRACE:  "leftbrace",
	evdev.KEY_RIGHTBRACE: "rightbrace",
	evdev.KEY_SEMICOLON:  "semicolon",
	evdev.KEY_APOSTROPHE: "apostrophe",
	evdev.KEY_GRAVE:      "grave",
	evdev.KEY_BACKSLASH:  "backslash",
	evdev.KEY_COMMA:      "comma",
	evdev.KEY_DOT:        "dot",
	evdev.KEY_SLASH:      "slash",
	evdev.KEY_CAPSLOCK:   "capslock",
	evdev.KEY_NUMLOCK:    "numlock",
	evdev.KEY_SCROLLLOCK: "scrolllock",
}

// nameAliases maps accepted alternate spellings to a canonical name.
var nameAliases = map[string]string{
	"esc":       "escape",
	"return":    "enter",
	"control":   "ctrl",
	"meta":      "super",
	"win":       "super",
	"leftshift": "shift",
	"leftctrl":  "ctrl",
	"leftalt":   "alt",
	"leftmeta":  "super",
	"pgup":      "pageup",
	"pgdn":      "pagedown",
	"del":       "delete",
	"ins":       "insert",
}

var nameToCode map[string]Code

func init() {
	nameToCode = make(map[string]Code, len(codeToName)+len(nameAliases))
	for code, name := range codeToName {
		nameToCode[name] = code
	}
	for alias, canonical := range nameAliases {
		nameToCode[alias] = nameToCode[canonical]
	}
}

// CodeToName returns the canonical name for a keycode.
func CodeToName(code Code) (string, error) {
	name, ok := codeToName[code]
	if !ok {
		return "", fmt.Errorf("%w: code %d", ErrUnknownKey, code)
	}
	return name, nil
}

// NameToCode returns the keycode for a key name. Lookup is
// case-insensitive and tolerates an evdev-style KEY_ prefix.
func NameToCode(name string) (Code, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "key_")
	code, ok := nameToCode[n]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return code, nil
}

// Normalize resolves a config token to a keycode. Names are tried first
// so that "1" means KEY_1 rather than keycode 1 (KEY_ESC); only tokens
// that are not known names fall back to being parsed as a raw keycode.
func Normalize(token string) (Code, error) {
	if code, err := NameToCode(token); err == nil {
		return code, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(token)); err == nil && n > 0 && n < 0x300 {
		return Code(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

// EmitName returns the name to hand to the dotool backend for a code.
// Codes outside the table use dotool's raw-keycode syntax.
func EmitName(code Code) string {
	if name, ok := codeToName[code]; ok {
		return name
	}
	return fmt.Sprintf("k:%d", code)
}

// Defined reports whether the table has an entry for code.
func Defined(code Code) bool {
	_, ok := codeToName[code]
	return ok
}

// DefinedCodes returns all keycodes present in the table.
func DefinedCodes() []Code {
	out := make([]Code, 0, len(codeToName))
	for code := range codeToName {
		out = append(out, code)
	}
	return out
}
