// Package tui renders the output of cirunner in the terminal: the report of
// a failed check and an interactive picker listing the checks of a commit.
package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cirunner/src/provider"
)

// ErrNoSelection is returned when the picker is closed without choosing.
var ErrNoSelection = errors.New("no CI check selected")

// PickerModel is the Bubble Tea model listing checks to choose from.
type PickerModel struct {
	list     list.Model
	styles   *StyleConfig
	selected *provider.Check
	quitting bool
}

// NewPickerModel creates a picker over checks.
func NewPickerModel(checks []provider.Check) PickerModel {
	delegate := NewDelegate()

	items := make([]list.Item, len(checks))
	for i, check := range checks {
		items[i] = Item{Check: check}
	}

	l := list.New(items, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return PickerModel{list: l, styles: DefaultStyles()}
}

// Init initializes the model. Required by tea.Model interface.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, max(msg.Height-4, 1))

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				check := item.Check
				m.selected = &check
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.selected != nil || m.quitting {
		return ""
	}

	title := m.styles.TitleStyle().Render("Which CI check should be rerun?")
	help := m.styles.HelpStyle().Render("↑/↓ navigate • / filter • enter select • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.list.View(), help)
}

// Selected returns the chosen check, if any.
func (m PickerModel) Selected() (provider.Check, bool) {
	if m.selected == nil {
		return provider.Check{}, false
	}
	return *m.selected, true
}

// PickCheck lets the user choose one of checks interactively.
func PickCheck(checks []provider.Check, in io.Reader, out io.Writer) (provider.Check, error) {
	if len(checks) == 0 {
		return provider.Check{}, fmt.Errorf("%w: there are no failed CI checks on this commit", ErrNoSelection)
	}

	program := tea.NewProgram(NewPickerModel(checks), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return provider.Check{}, fmt.Errorf("running check picker: %w", err)
	}

	check, ok := final.(PickerModel).Selected()
	if !ok {
		return provider.Check{}, ErrNoSelection
	}
	return check, nil
}
