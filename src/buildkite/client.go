// Package buildkite provides clients for interacting with Buildkite.
//
// Buildkite API tokens are scoped to an organization, so contributors of an
// open source project usually can't read its builds through the API. Public
// builds are therefore read through the web endpoints of buildkite.com
// (PublicClient) and the API (Client) is only used for private builds.
package buildkite

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"cirunner/src/provider"
)

const (
	// APIBaseURL is the base URL for the Buildkite API.
	APIBaseURL = "https://api.buildkite.com/v2"
)

var buildURLPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+)/builds/(\d+)`)

// Client is an authenticated Buildkite API client.
type Client struct {
	*provider.Client
}

// Build represents a Buildkite build as returned by the API.
type Build struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	State  string `json:"state"`
	WebURL string `json:"web_url"`
	Jobs   []Job  `json:"jobs"`
}

// Job represents a Buildkite job within a build.
type Job struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	State     string `json:"state"`
	RawLogURL string `json:"raw_log_url"`
	// BasePath is only set by the public web endpoint.
	BasePath string `json:"base_path"`
}

// AccessToken describes the token used to authenticate.
type AccessToken struct {
	UUID   string   `json:"uuid"`
	Scopes []string `json:"scopes"`
}

// NewClient creates a new Buildkite API client.
func NewClient(apiToken string) *Client {
	return &Client{Client: provider.NewClient("Buildkite", APIBaseURL, provider.BearerAuth(apiToken))}
}

// ParseBuildURL extracts the organization, pipeline, and build number from a Buildkite URL.
// Expected format: https://buildkite.com/{org}/{pipeline}/builds/{number}
func ParseBuildURL(buildURL string) (org, pipeline string, buildNumber int, err error) {
	matches := buildURLPattern.FindStringSubmatch(buildURL)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("%w: %s", provider.ErrInvalidURL, buildURL)
	}

	org = matches[1]
	pipeline = matches[2]
	buildNumber, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid build number in URL: %w", err)
	}

	return org, pipeline, buildNumber, nil
}

// GetBuild fetches a build's metadata from the Buildkite API.
// See https://buildkite.com/docs/apis/rest-api/builds#get-a-build
func (c *Client) GetBuild(ctx context.Context, org, pipeline string, buildNumber int) (*Build, error) {
	var build Build
	if err := c.GetJSON(ctx, fmt.Sprintf("/organizations/%s/pipelines/%s/builds/%d", org, pipeline, buildNumber), &build); err != nil {
		return nil, err
	}
	return &build, nil
}

// JobLogURLs returns the raw log URL of every job of a build.
func (c *Client) JobLogURLs(ctx context.Context, org, pipeline string, buildNumber int) ([]string, error) {
	build, err := c.GetBuild(ctx, org, pipeline, buildNumber)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(build.Jobs))
	for _, job := range build.Jobs {
		if job.RawLogURL == "" {
			// Wait and block steps have no log.
			continue
		}
		urls = append(urls, job.RawLogURL)
	}
	return urls, nil
}

// DownloadLog fetches the raw log content using the provided raw_log_url.
// See https://buildkite.com/docs/apis/rest-api/jobs#get-a-jobs-log-output
func (c *Client) DownloadLog(ctx context.Context, rawLogURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawLogURL)
	if err != nil {
		return nil, err
	}
	return c.Follow(ctx, resp)
}

// AccessToken returns information about the token. Used to check a token
// before storing it.
// See https://buildkite.com/docs/apis/rest-api/access-token
func (c *Client) AccessToken(ctx context.Context) (*AccessToken, error) {
	var token AccessToken
	if err := c.GetJSON(ctx, "/access-token", &token); err != nil {
		return nil, err
	}
	return &token, nil
}
