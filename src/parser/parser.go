// Package parser reads a CI log and recovers the run metadata and the failed
// tests it reports.
//
// Lines are scanned by a two state machine. While Idle, lines are ignored
// until one matches a boundary pattern, which starts Buffering. Buffered
// blocks are flushed when a new boundary appears (or at the end of the log)
// and failures are extracted from them.
package parser

import (
	"regexp"
	"strings"

	"cirunner/src/config"
	"cirunner/src/resolve"
	"cirunner/src/runner"
	"cirunner/src/sanitize"
)

// Resolver locates a failure in the local working tree.
type Resolver interface {
	Resolve(buffer, class, testName, candidate string) (resolve.Failure, error)
}

// Result is what was learnt from a log.
type Result struct {
	Kind           runner.Kind       `json:"framework"`
	Seed           string            `json:"seed,omitempty"`
	RuntimeVersion string            `json:"ruby_version,omitempty"`
	Manifest       string            `json:"gemfile,omitempty"`
	Failures       []resolve.Failure `json:"failures"`
}

// Parser is immutable and may be reused across logs.
type Parser struct {
	kind runner.Kind

	seed     []*regexp.Regexp
	runtime  []*regexp.Regexp
	manifest []*regexp.Regexp
	boundary []*regexp.Regexp

	failure    *regexp.Regexp
	extraction runner.Extraction

	processOnNewMatch bool
	validate          error

	resolver Resolver
}

// New builds a parser for logs of kind. Project patterns take precedence
// over the framework defaults; a project failure pattern replaces the default
// one but keeps the framework extraction mode.
func New(kind runner.Kind, project config.Patterns, resolver Resolver) *Parser {
	defaults := kind.Defaults()

	p := &Parser{
		kind:              kind,
		seed:              prepend(project.Seed, defaults.Seed),
		runtime:           prepend(project.Runtime, defaults.Runtime),
		manifest:          prepend(project.Manifest, defaults.Manifest),
		boundary:          prepend(project.Boundary, defaults.Boundary),
		failure:           defaults.Failure,
		extraction:        defaults.Extraction,
		processOnNewMatch: project.ProcessOnNewMatch,
		validate:          project.Validate(),
		resolver:          resolver,
	}

	if project.Failures != nil {
		p.failure = project.Failures
	}

	return p
}

func prepend(override *regexp.Regexp, defaults []*regexp.Regexp) []*regexp.Regexp {
	if override == nil {
		return defaults
	}
	return append([]*regexp.Regexp{override}, defaults...)
}

// parseContext is the state of one Parse call.
type parseContext struct {
	buffer    []string
	buffering bool

	seed     string
	runtime  string
	manifest string

	failures []resolve.Failure
}

func (c *parseContext) start(line string) {
	c.buffer = append(c.buffer[:0], line)
	c.buffering = true
}

func (c *parseContext) append(line string) {
	if c.buffering {
		c.buffer = append(c.buffer, line)
	}
}

// Parse scans content. A failure that can't be resolved aborts the parse and
// its *resolve.ResolutionError is returned.
func (p *Parser) Parse(content string) (*Result, error) {
	if p.validate != nil {
		return nil, p.validate
	}

	ctx := &parseContext{failures: []resolve.Failure{}}

	for _, line := range sanitize.Lines(content) {
		if value, ok := firstMatch(p.seed, line); ok {
			ctx.seed = value
			continue
		}

		if value, ok := firstMatch(p.runtime, line); ok {
			ctx.runtime = value
			ctx.append(line)
			continue
		}

		if value, ok := firstMatch(p.manifest, line); ok {
			ctx.manifest = value
			continue
		}

		if _, ok := firstMatch(p.boundary, line); ok {
			switch {
			case !ctx.buffering:
				ctx.start(line)
			case p.processOnNewMatch:
				if err := p.flush(ctx); err != nil {
					return nil, err
				}
				ctx.start(line)
			default:
				ctx.append(line)
			}
			continue
		}

		ctx.append(line)
	}

	if ctx.buffering {
		if err := p.flush(ctx); err != nil {
			return nil, err
		}
	}

	return &Result{
		Kind:           p.kind,
		Seed:           ctx.seed,
		RuntimeVersion: ctx.runtime,
		Manifest:       ctx.manifest,
		Failures:       ctx.failures,
	}, nil
}

// firstMatch tries patterns in order. The value is the first capture group,
// or the whole match for patterns without groups.
func firstMatch(patterns []*regexp.Regexp, line string) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1], true
		}
		return m[0], true
	}
	return "", false
}

func (p *Parser) flush(ctx *parseContext) error {
	block := strings.Join(ctx.buffer, "\n")
	ctx.buffer = ctx.buffer[:0]
	ctx.buffering = false

	switch p.extraction {
	case runner.PerLine:
		for _, line := range strings.Split(block, "\n") {
			if err := p.extract(ctx, block, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return p.extract(ctx, block, block)
	}
}

func (p *Parser) extract(ctx *parseContext, block, target string) error {
	m := p.failure.FindStringSubmatch(target)
	if m == nil {
		return nil
	}

	group := func(name string) string {
		if i := p.failure.SubexpIndex(name); i >= 0 {
			return m[i]
		}
		return ""
	}

	testName := strings.TrimRight(group("test_name"), " \t")
	failure, err := p.resolver.Resolve(block, group("class"), testName, group("file_path"))
	if err != nil {
		return err
	}

	ctx.failures = append(ctx.failures, failure)
	return nil
}
