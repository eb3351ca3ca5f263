package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Cursor, status glyph and the separators around the provider column.
	fixedColumnsWidth = 9
	providerWidth     = 9
)

// Delegate renders checks as table rows.
type Delegate struct {
	styles *StyleConfig
}

// NewDelegate creates a new delegate with default styles
func NewDelegate() Delegate {
	return Delegate{styles: DefaultStyles()}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Row formats a check for a list of the given width.
func (d Delegate) Row(item Item, width int, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}

	glyph := "✓"
	if item.Check.Failed() {
		glyph = "✗"
	}

	name := ""
	if available := width - fixedColumnsWidth - providerWidth; available > 0 {
		name = Truncate(item.Title(), available, true)
	}

	return fmt.Sprintf("%s %s │ %s │ %s",
		cursor,
		d.styles.StatusStyle(item.Check.Failed()).Render(glyph),
		TruncateAndPad(item.Description(), providerWidth, false),
		name)
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	selected := index == m.Index()

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if selected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(d.Row(entry, m.Width(), selected)))
}
