// Package tui implements the interactive keyboard picker used by
// `keymapd list --pick`.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/keymapd/internal/devices"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// pickerModel is the bubbletea model for the device picker.
type pickerModel struct {
	items    []devices.Info
	cursor   int
	chosen   int // index into items, -1 until confirmed
	quitting bool
}

func newPickerModel(items []devices.Info) pickerModel {
	return pickerModel{items: items, chosen: -1}
}

// Init implements tea.Model.
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
		m.quitting = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render("Select a keyboard") + "\n\n"
	for i, item := range m.items {
		line := fmt.Sprintf("%s  %s", item.Name, dimStyle.Render(item.Path))
		if i == m.cursor {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += normalStyle.Render("  "+line) + "\n"
		}
	}
	s += helpStyle.Render("↑/↓ move · enter select · q quit")
	return s
}

// PickDevice shows an interactive list of keyboards and returns the
// chosen device path. Returns an error when stdin is not a terminal or
// the user cancels.
func PickDevice(items []devices.Info) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no keyboards found")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", fmt.Errorf("interactive picker requires a terminal (use --device instead)")
	}

	p := tea.NewProgram(newPickerModel(items))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || m.chosen < 0 {
		return "", fmt.Errorf("no device selected")
	}
	return m.items[m.chosen].Path, nil
}
