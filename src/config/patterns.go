package config

import (
	"fmt"
	"regexp"
	"strings"
)

// FailureCaptures are the named groups a custom failures_regex must define.
var FailureCaptures = []string{"file_path", "test_name", "class"}

var literalPattern = regexp.MustCompile(`(?s)\A/(.*)/([a-z]*)\z`)

// Patterns are the compiled project overrides handed to the parser. A nil
// pattern means the runner's default applies. Start from DefaultPatterns:
// the zero value has ProcessOnNewMatch off.
type Patterns struct {
	Seed     *regexp.Regexp
	Runtime  *regexp.Regexp
	Manifest *regexp.Regexp
	Boundary *regexp.Regexp
	Failures *regexp.Regexp

	ProcessOnNewMatch bool
}

// DefaultPatterns is the configuration of a project without ci_runner.yml.
func DefaultPatterns() Patterns {
	return Patterns{ProcessOnNewMatch: true}
}

// Compile validates the project configuration and compiles its patterns.
func (p *Project) Compile() (Patterns, error) {
	patterns := DefaultPatterns()
	if p == nil {
		return patterns, nil
	}

	if p.ProcessOnNewMatch != nil {
		patterns.ProcessOnNewMatch = *p.ProcessOnNewMatch
	}

	fields := []struct {
		key     string
		pattern *Pattern
		dest    **regexp.Regexp
	}{
		{"seed_regex", p.SeedRegex, &patterns.Seed},
		{"ruby_regex", p.RuntimeRegex, &patterns.Runtime},
		{"gemfile_regex", p.ManifestRegex, &patterns.Manifest},
		{"buffer_starts_regex", p.BufferStartsRegex, &patterns.Boundary},
		{"failures_regex", p.FailuresRegex, &patterns.Failures},
	}

	for _, f := range fields {
		if f.pattern == nil || f.pattern.Source == "" {
			continue
		}

		re, err := CompilePattern(*f.pattern)
		if err != nil {
			return Patterns{}, &ConfigurationError{Key: f.key, Reason: err.Error()}
		}
		*f.dest = re
	}

	if err := patterns.Validate(); err != nil {
		return Patterns{}, err
	}

	return patterns, nil
}

// Validate checks that a custom failure pattern defines every named group
// in FailureCaptures.
func (p Patterns) Validate() error {
	if p.Failures == nil {
		return nil
	}

	if missing := missingCaptures(p.Failures); len(missing) > 0 {
		return &ConfigurationError{
			Reason: fmt.Sprintf(
				"The failures_regex configuration of your project doesn't include expected named captures. "+
					"CI Runner expects the following Regexp named captures: [%s].\n\n"+
					"Your Regex should look something like /(?<file_path>...)(?<test_name>...)(?<class>...)/",
				`"`+strings.Join(FailureCaptures, `", "`)+`"`),
		}
	}
	return nil
}

func missingCaptures(re *regexp.Regexp) []string {
	names := make(map[string]bool)
	for _, name := range re.SubexpNames() {
		names[name] = true
	}

	var missing []string
	for _, want := range FailureCaptures {
		if !names[want] {
			missing = append(missing, want)
		}
	}
	return missing
}

// CompilePattern compiles a configured pattern with Ruby line semantics:
// ^ and $ match at line boundaries. Literal patterns have their flags
// translated, m (dot matches newline) becomes s and i stays i.
func CompilePattern(p Pattern) (*regexp.Regexp, error) {
	source := p.Source
	flags := "m"

	if p.Literal {
		m := literalPattern.FindStringSubmatch(source)
		if m == nil {
			return nil, fmt.Errorf("%q is not a /.../ regexp literal", source)
		}
		source = m[1]

		for _, flag := range m[2] {
			switch flag {
			case 'm':
				flags += "s"
			case 'i':
				flags += "i"
			default:
				return nil, fmt.Errorf("unsupported regexp flag %q", flag)
			}
		}
	}

	return regexp.Compile("(?" + flags + ")" + translateAnchors(source))
}

// translateAnchors rewrites \Z, which RE2 doesn't know, to \z. Lines are
// matched without their terminator so both mean end of line.
func translateAnchors(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\\' && i+1 < len(source) {
			next := source[i+1]
			if next == 'Z' {
				next = 'z'
			}
			sb.WriteByte(c)
			sb.WriteByte(next)
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
