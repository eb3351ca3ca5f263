package githubactions

import (
	"context"
	"fmt"

	"cirunner/src/provider"
)

const (
	// APIBaseURL is the base URL for the GitHub REST API.
	APIBaseURL = "https://api.github.com"

	// GitHub's max per page
	perPage = 100
)

// Client is a GitHub API client for the check and status endpoints
type Client struct {
	*provider.Client
}

// NewClient creates a new GitHub client. An empty token sends anonymous
// requests, which only work for public repositories.
func NewClient(token string) *Client {
	var auth provider.Authenticator
	if token != "" {
		auth = provider.BearerAuth(token)
	}
	return &Client{Client: provider.NewClient("GitHub", APIBaseURL, auth)}
}

// CheckRuns fetches every check run of a commit (handles pagination)
func (c *Client) CheckRuns(ctx context.Context, repository, commit string) ([]CheckRun, error) {
	var allRuns []CheckRun
	page := 1

	for {
		path := fmt.Sprintf("/repos/%s/commits/%s/check-runs?per_page=%d&page=%d", repository, commit, perPage, page)

		var runsResp CheckRunsResponse
		if err := c.GetJSON(ctx, path, &runsResp); err != nil {
			return nil, fmt.Errorf("fetching check runs: %w", err)
		}

		allRuns = append(allRuns, runsResp.CheckRuns...)

		if len(allRuns) >= runsResp.TotalCount || len(runsResp.CheckRuns) < perPage {
			break
		}

		page++
	}

	return allRuns, nil
}

// CommitStatuses fetches every status reported on a commit (handles pagination)
func (c *Client) CommitStatuses(ctx context.Context, repository, commit string) ([]CommitStatus, error) {
	var allStatuses []CommitStatus
	page := 1

	for {
		path := fmt.Sprintf("/repos/%s/commits/%s/statuses?per_page=%d&page=%d", repository, commit, perPage, page)

		var statuses []CommitStatus
		if err := c.GetJSON(ctx, path, &statuses); err != nil {
			return nil, fmt.Errorf("fetching commit statuses: %w", err)
		}

		allStatuses = append(allStatuses, statuses...)

		if len(statuses) < perPage {
			break
		}

		page++
	}

	return allStatuses, nil
}

// DownloadLog fetches the raw log of a GitHub Actions job. The API answers
// with a redirection to a short lived URL which is downloaded without
// credentials.
func (c *Client) DownloadLog(ctx context.Context, repository string, jobID int64) ([]byte, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("/repos/%s/actions/jobs/%d/logs", repository, jobID))
	if err != nil {
		return nil, fmt.Errorf("fetching job log: %w", err)
	}

	return c.Follow(ctx, resp)
}

// Me returns the user the token belongs to. Used to verify a token before
// storing it.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.GetJSON(ctx, "/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
