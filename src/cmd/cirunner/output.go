package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"cirunner/src/provider"
	"cirunner/src/tui"
)

// withSpinner runs fn while a spinner is displayed on stderr. Nothing is
// displayed when stderr is not a terminal or with --json.
func withSpinner(msg string, fn func() error) error {
	if jsonOutput || verbose || !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	err := fn()
	s.Stop()

	if err == nil {
		green := color.New(color.FgGreen)
		_, _ = green.Fprintf(os.Stderr, "✓ %s\n", msg)
	}
	return err
}

const nameWidth = 60

// formatChecks lists checks one per line with their status.
func formatChecks(checks []provider.Check) string {
	var sb strings.Builder
	for _, check := range checks {
		glyph := color.YellowString("•")
		switch {
		case check.Success():
			glyph = color.GreenString("✓")
		case check.Failed():
			glyph = color.RedString("✗")
		}

		fmt.Fprintf(&sb, "%s %s %s\n", glyph,
			tui.TruncateAndPad(check.DisplayName(), nameWidth, true),
			color.HiBlackString(check.ProviderName()))
	}
	return sb.String()
}

func printChecks(w io.Writer, checks []provider.Check) {
	if len(checks) == 0 {
		fmt.Fprintln(w, "There are no CI checks on this commit.")
		return
	}
	fmt.Fprint(w, formatChecks(checks))
}
