package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/keymapd/internal/devices"
)

func testItems() []devices.Info {
	return []devices.Info{
		{Path: "/dev/input/event0", Name: "AT Translated Set 2 keyboard", Keyboard: true},
		{Path: "/dev/input/event3", Name: "USB Keyboard", Keyboard: true},
	}
}

func press(m pickerModel, key string) pickerModel {
	var k tea.KeyMsg
	switch key {
	case "up":
		k = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		k = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		k = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		k = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		k = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(k)
	return next.(pickerModel)
}

func TestPickerNavigationAndSelect(t *testing.T) {
	m := newPickerModel(testItems())

	m = press(m, "down")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	// Bottom is sticky.
	m = press(m, "down")
	if m.cursor != 1 {
		t.Fatalf("cursor past end: %d", m.cursor)
	}
	m = press(m, "enter")
	if m.chosen != 1 {
		t.Fatalf("chosen = %d, want 1", m.chosen)
	}
}

func TestPickerCancelLeavesNothingChosen(t *testing.T) {
	m := newPickerModel(testItems())
	m = press(m, "esc")
	if m.chosen != -1 {
		t.Fatalf("chosen = %d, want -1", m.chosen)
	}
	if !m.quitting {
		t.Fatal("esc must quit")
	}
}

func TestPickerViewMarksSelection(t *testing.T) {
	m := newPickerModel(testItems())
	view := m.View()
	if !strings.Contains(view, "USB Keyboard") || !strings.Contains(view, "/dev/input/event0") {
		t.Fatalf("view missing device entries:\n%s", view)
	}
}

func TestPickDeviceRejectsEmptyList(t *testing.T) {
	if _, err := PickDevice(nil); err == nil {
		t.Fatal("expected error for empty device list")
	}
}
