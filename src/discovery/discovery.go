// Package discovery lists the CI checks reported on a commit and picks the
// one whose failures should be reproduced.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"cirunner/src/githubactions"
	"cirunner/src/provider"
)

// CheckSource is the part of the GitHub API checks are discovered from.
type CheckSource interface {
	CheckRuns(ctx context.Context, repository, commit string) ([]githubactions.CheckRun, error)
	CommitStatuses(ctx context.Context, repository, commit string) ([]githubactions.CommitStatus, error)
}

// Service discovers checks through the GitHub API.
type Service struct {
	source CheckSource
}

func NewService(source CheckSource) *Service {
	return &Service{source: source}
}

// FetchChecks returns the GitHub Actions check runs of a commit followed by
// its commit statuses. A check reported more than once keeps its first
// occurrence; GitHub lists the newest status first.
func (s *Service) FetchChecks(ctx context.Context, repository, commit string) ([]provider.Check, error) {
	runs, err := s.source.CheckRuns(ctx, repository, commit)
	if err != nil {
		return nil, err
	}

	statuses, err := s.source.CommitStatuses(ctx, repository, commit)
	if err != nil {
		return nil, err
	}

	all := append(
		githubactions.ChecksFromRuns(repository, commit, runs),
		githubactions.ChecksFromStatuses(repository, commit, statuses)...,
	)

	return dedup(all), nil
}

func dedup(checks []provider.Check) []provider.Check {
	type key struct {
		kind    provider.Kind
		locator string
	}

	seen := make(map[key]bool, len(checks))
	unique := make([]provider.Check, 0, len(checks))

	for _, check := range checks {
		k := key{check.Kind, check.Locator()}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, check)
	}

	return unique
}

// CheckNotFoundError is returned by Find when no check has the requested name.
type CheckNotFoundError struct {
	Name   string
	Checks []provider.Check
}

func (e *CheckNotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Couldn't find a CI check called '%s'.\n", e.Name)

	var listed []string
	for _, check := range e.Checks {
		switch {
		case check.Success():
			listed = append(listed, color.GreenString("✓")+" "+check.DisplayName())
		case check.Failed():
			listed = append(listed, color.RedString("✗")+" "+check.DisplayName())
		}
	}

	if len(listed) == 0 {
		sb.WriteString("\nThere are no CI checks on this commit.\n")
		return sb.String()
	}

	sb.WriteString("CI checks on this commit are:\n\n")
	for _, line := range listed {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// CheckSucceededError is returned by Find when the requested check did not
// fail, leaving nothing to rerun.
type CheckSucceededError struct {
	Name string
}

func (e *CheckSucceededError) Error() string {
	return fmt.Sprintf("The CI check '%s' was successful. There should be no failing tests to rerun.", e.Name)
}

// Find returns the check called name. It fails when the check doesn't exist,
// didn't fail, or was reported by a CI we can't download logs from.
func Find(checks []provider.Check, name string) (provider.Check, error) {
	for _, check := range checks {
		if check.Name != name {
			continue
		}

		if !check.Failed() {
			return provider.Check{}, &CheckSucceededError{Name: name}
		}
		if check.Kind == provider.KindUnsupported {
			return provider.Check{}, provider.WrapError(fmt.Errorf("%s: %w", check.URL, provider.ErrUnsupportedProvider))
		}
		return check, nil
	}

	return provider.Check{}, &CheckNotFoundError{Name: name, Checks: checks}
}

// Failed returns the checks worth picking from.
func Failed(checks []provider.Check) []provider.Check {
	var failed []provider.Check
	for _, check := range checks {
		if check.Failed() {
			failed = append(failed, check)
		}
	}
	return failed
}
