// Package pipeline turns a failed CI check into the list of tests to rerun.
// This package is used by both the CLI and the MCP server.
package pipeline

import (
	"context"
	"fmt"

	"cirunner/src/config"
	"cirunner/src/discovery"
	"cirunner/src/githubactions"
	"cirunner/src/ingest"
	"cirunner/src/logger"
	"cirunner/src/parser"
	"cirunner/src/provider"
	"cirunner/src/resolve"
	"cirunner/src/runner"
	"cirunner/src/sanitize"
)

// Result is everything learnt about a failed check.
type Result struct {
	Check          provider.Check    `json:"check"`
	Kind           runner.Kind       `json:"framework"`
	Seed           string            `json:"seed,omitempty"`
	RuntimeVersion string            `json:"ruby_version,omitempty"`
	Manifest       string            `json:"gemfile,omitempty"`
	Failures       []resolve.Failure `json:"failures"`
	LogPath        string            `json:"log_path"`
}

// LogFetcher returns the whole log of a check.
type LogFetcher interface {
	FetchLog(ctx context.Context, check provider.Check) (*ingest.LogBuffer, error)
}

// Pipeline fetches, detects, parses and resolves.
type Pipeline struct {
	checks   *discovery.Service
	fetcher  LogFetcher
	patterns config.Patterns
	resolver parser.Resolver
	logger   logger.Logger
}

// New assembles a pipeline from its parts.
func New(checks *discovery.Service, fetcher LogFetcher, patterns config.Patterns, resolver parser.Resolver, log logger.Logger) *Pipeline {
	return &Pipeline{
		checks:   checks,
		fetcher:  fetcher,
		patterns: patterns,
		resolver: resolver,
		logger:   log,
	}
}

// FromConfig wires the provider clients, the cache and the project patterns
// described by cfg. An invalid project configuration is reported here,
// before anything is downloaded.
func FromConfig(cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	patterns, err := cfg.Project.Compile()
	if err != nil {
		return nil, err
	}

	github := githubactions.NewClient(cfg.User.TokenFor(provider.KindGitHub, ""))
	fetcher := ingest.NewFetcher(cfg.CacheDir, Downloaders(cfg.User, github), log)

	return New(discovery.NewService(github), fetcher, patterns, resolve.New(cfg.Root), log), nil
}

// Checks lists the checks of a commit.
func (p *Pipeline) Checks(ctx context.Context, repository, commit string) ([]provider.Check, error) {
	p.logger.Debug("Fetching CI checks of %s@%s", repository, commit)

	checks, err := p.checks.FetchChecks(ctx, repository, commit)
	if err != nil {
		return nil, provider.WrapError(err)
	}
	return checks, nil
}

// Find lists the checks of a commit and returns the failed one called name.
func (p *Pipeline) Find(ctx context.Context, repository, commit, name string) (provider.Check, error) {
	checks, err := p.Checks(ctx, repository, commit)
	if err != nil {
		return provider.Check{}, err
	}
	return discovery.Find(checks, name)
}

// Run downloads the log of check and extracts its failures.
func (p *Pipeline) Run(ctx context.Context, check provider.Check) (*Result, error) {
	buf, err := p.fetcher.FetchLog(ctx, check)
	if err != nil {
		return nil, provider.WrapError(err)
	}

	content := buf.String()

	kind, err := runner.Detect(sanitize.StripANSI(content))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Detected %s output in %s", kind.Name(), buf.Path)

	parsed, err := parser.New(kind, p.patterns, p.resolver).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", buf.Path, err)
	}

	p.logger.Info("Found %d failing tests in %s", len(parsed.Failures), check.Name)

	return &Result{
		Check:          check,
		Kind:           parsed.Kind,
		Seed:           parsed.Seed,
		RuntimeVersion: parsed.RuntimeVersion,
		Manifest:       parsed.Manifest,
		Failures:       parsed.Failures,
		LogPath:        buf.Path,
	}, nil
}
