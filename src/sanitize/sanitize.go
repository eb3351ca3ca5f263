// Package sanitize cleans raw CI log output before it is scanned. Logs are
// full of colour codes and provider specific markers which would otherwise
// leak into test names and file paths.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Buildkite timestamp markers: \x1b_bk;t=...\x07
var buildkiteTimestamp = regexp.MustCompile(`\x1b_bk;t=[0-9]+\x07`)

// StripANSI removes ANSI escape sequences and Buildkite timestamp markers.
func StripANSI(s string) string {
	s = buildkiteTimestamp.ReplaceAllString(s, "")
	return ansi.Strip(s)
}

// Lines splits log content into sanitized lines, without terminators.
// Windows line endings are accepted.
func Lines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = StripANSI(strings.TrimSuffix(line, "\r"))
	}
	return lines
}
