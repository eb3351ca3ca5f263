package provider

import "strconv"

// Kind tags which CI provider produced a Check.
type Kind string

const (
	KindGitHub      Kind = "github"
	KindCircleCI    Kind = "circleci"
	KindBuildkite   Kind = "buildkite"
	KindUnsupported Kind = "unsupported"
)

// Check is one upstream CI result for a commit.
//
// GitHub checks are located by ID (the check run id). CircleCI, Buildkite and
// unsupported checks are located by URL (the commit status target URL).
type Check struct {
	Kind       Kind   `json:"provider"`
	Repository string `json:"repository"` // owner/name
	Commit     string `json:"commit"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ID         int64  `json:"id,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Success reports whether the check passed.
func (c Check) Success() bool {
	return c.Status == "success"
}

// Failed reports whether the check failed or errored.
// See https://docs.github.com/en/rest/commits/statuses#get-the-combined-status-for-a-specific-reference
func (c Check) Failed() bool {
	return c.Status == "error" || c.Status == "failure"
}

// DisplayName is the name shown to users when listing checks.
func (c Check) DisplayName() string {
	if c.Kind == KindUnsupported {
		return c.Name + " (Unsupported by CI Runner)"
	}
	return c.Name
}

// Locator returns the provider specific identity of the check.
func (c Check) Locator() string {
	if c.Kind == KindGitHub {
		return strconv.FormatInt(c.ID, 10)
	}
	return c.URL
}

// ProviderName is the human readable provider name, empty for unsupported checks.
func (c Check) ProviderName() string {
	switch c.Kind {
	case KindGitHub:
		return "GitHub"
	case KindCircleCI:
		return "CircleCI"
	case KindBuildkite:
		return "Buildkite"
	default:
		return ""
	}
}
