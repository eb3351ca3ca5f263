package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cirunner/src/pipeline"
)

// RenderReport describes what was found in the log of a failed check.
func RenderReport(result *pipeline.Result, styles *StyleConfig) string {
	if styles == nil {
		styles = DefaultStyles()
	}
	value := styles.ValueStyle()

	runtime := result.RuntimeVersion
	if runtime == "" {
		runtime = "No specific Ruby version detected. Will be using your current version."
	}
	manifest := result.Manifest
	if manifest == "" {
		manifest = "No specific Gemfile detected. Will be using the default Gemfile of your project."
	}
	seed := result.Seed
	if seed == "" {
		seed = "None"
	}

	rows := []struct{ label, value string }{
		{"Test framework detected:", result.Kind.Name()},
		{"Detected Ruby version:", runtime},
		{"Detected Gemfile:", manifest},
		{"Detected seed:", seed},
		{"Number of failing tests:", fmt.Sprintf("%d", len(result.Failures))},
	}

	var sb strings.Builder
	sb.WriteString(styles.TitleStyle().Render(result.Check.DisplayName()) + "\n\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "- %s %s\n", TruncateAndPad(row.label, 26, false), value.Render(row.value))
	}

	if len(result.Failures) == 0 {
		return sb.String()
	}

	lines := make([]string, len(result.Failures))
	for i, f := range result.Failures {
		name := f.TestName
		if f.Class != "" {
			name = f.Class + "#" + f.TestName
		}
		lines[i] = styles.StatusStyle(true).Render(name) + "\n  " + styles.HelpStyle().Render(f.Path)
	}

	sb.WriteString("\n")
	sb.WriteString(styles.PanelStyle().Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	sb.WriteString("\n")
	return sb.String()
}
