// Package runner detects which test framework produced a CI log and holds
// the patterns used to read each framework's output.
package runner

import (
	"regexp"
	"strings"
)

// Kind is a supported test framework.
type Kind string

const (
	Minitest Kind = "minitest"
	RSpec    Kind = "rspec"
)

// Extraction tells how failures are read out of a flushed block.
type Extraction int

const (
	// PerBlock extracts at most one failure per block.
	PerBlock Extraction = iota
	// PerLine extracts one failure per matching line of the block.
	PerLine
)

// Defaults are the built-in patterns of a framework. Lists are ordered: the
// first pattern that matches a line wins.
type Defaults struct {
	Seed     []*regexp.Regexp
	Runtime  []*regexp.Regexp
	Manifest []*regexp.Regexp
	Boundary []*regexp.Regexp

	// Failure captures file_path, test_name and, when the framework reports
	// it, class.
	Failure    *regexp.Regexp
	Extraction Extraction
}

// DetectionError is returned when no known framework signature is found.
type DetectionError struct{}

func (e *DetectionError) Error() string {
	return "Couldn't detect the test runner. Only Minitest and RSpec are supported."
}

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile("(?m)" + p)
	}
	return compiled
}

var (
	runtimePatterns = compile(
		`(?:^|[^\w/-])[rR]uby[[:blank:]-]v?(\d+\.\d+\.\d+)(?:p\d+)?(?:[^\d/]|$)`,
	)

	manifestPatterns = compile(
		`BUNDLE_GEMFILE[:=][[:blank:]]*["']?([^\s"']+)`,
	)

	minitestSeed = compile(
		// default statistics reporter
		`Run options:.*?--seed\s+(\d+)`,
		// minitest-reporters BaseReporter
		`Running tests with run options.*--seed\s+(\d+)`,
		// minitest-reporters ProgressReporter
		`Started with run options.*--seed\s+(\d+)`,
	)

	minitestSummary = regexp.MustCompile(`Finished in \d+\.\d{6}s, \d+\.\d{4} runs/s, \d+\.\d{4} assertions/s\.`)

	rspecSeed = compile(`Randomized with seed[[:blank:]]*(\d+)`)

	rspecSignature = regexp.MustCompile(`bundle exec rspec|Failed examples:`)

	defaults = map[Kind]Defaults{
		Minitest: {
			Seed:       minitestSeed,
			Runtime:    runtimePatterns,
			Manifest:   manifestPatterns,
			Boundary:   compile(`(Failure|Error):\s*\z`),
			Failure:    regexp.MustCompile(`(?m)(?:\s*)(?P<class>[a-zA-Z0-9_:]+)#(?P<test_name>test_.+?)(:\s*$|\s+\[(?P<file_path>.*):\d+\])`),
			Extraction: PerBlock,
		},
		RSpec: {
			Seed:       rspecSeed,
			Runtime:    runtimePatterns,
			Manifest:   manifestPatterns,
			Boundary:   compile(`(Finished in|Failed examples)`),
			Failure:    regexp.MustCompile(`rspec[[:blank:]]*(?P<file_path>.*?):\d+[[:blank:]]*#[[:blank:]]*(?P<test_name>.*)`),
			Extraction: PerLine,
		},
	}
)

// Detect returns the framework that produced content. Minitest is tried
// before RSpec.
func Detect(content string) (Kind, error) {
	switch {
	case matchesMinitest(content):
		return Minitest, nil
	case rspecSignature.MatchString(content):
		return RSpec, nil
	default:
		return "", &DetectionError{}
	}
}

func matchesMinitest(content string) bool {
	if minitestSummary.MatchString(content) || strings.Contains(content, "minitest") {
		return true
	}
	for _, re := range minitestSeed {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// Name is the display name of the framework.
func (k Kind) Name() string {
	switch k {
	case Minitest:
		return "Minitest"
	case RSpec:
		return "RSpec"
	default:
		return string(k)
	}
}

// Defaults returns the built-in patterns of the framework.
func (k Kind) Defaults() Defaults {
	return defaults[k]
}
