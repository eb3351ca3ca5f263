// Package circleci provides a client for the CircleCI v1.1 API.
package circleci

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cirunner/src/provider"
)

const (
	// APIBaseURL is the base URL for the CircleCI API.
	APIBaseURL = "https://circleci.com"
)

// Client is a CircleCI API client.
type Client struct {
	*provider.Client
	token string
}

// NewClient creates a new CircleCI client. The token is optional: public
// projects can be read anonymously.
func NewClient(token string) *Client {
	var auth provider.Authenticator
	if token != "" {
		auth = provider.BasicAuth(token, "")
	}
	return &Client{
		Client: provider.NewClient("CircleCI", APIBaseURL, auth),
		token:  token,
	}
}

// Job fetches a single job.
// See https://circleci.com/docs/api/v1/index.html#single-job
func (c *Client) Job(ctx context.Context, repository, buildNumber string) (*Job, error) {
	var job Job

	err := c.GetJSON(ctx, fmt.Sprintf("/api/v1.1/project/github/%s/%s", repository, buildNumber), &job)
	if err != nil {
		var reqErr *provider.RequestError
		if c.token == "" && errors.As(err, &reqErr) && reqErr.Code == http.StatusNotFound {
			reqErr.Message = "404 while trying to fetch the CircleCI build.\n\n" +
				"Please save a CircleCI token in your configuration.\n" +
				"cirunner circle-ci-token --help"
		}
		return nil, err
	}

	return &job, nil
}

// Output downloads the output file of an action and joins its messages.
func (c *Client) Output(ctx context.Context, outputURL string) (string, error) {
	body, err := c.Download(ctx, outputURL)
	if err != nil {
		return "", err
	}

	var messages []OutputMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		return "", fmt.Errorf("failed to decode CircleCI output: %w", err)
	}

	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(m.Message)
	}
	return sb.String(), nil
}

// Me returns the login of the token owner. Used to verify a token before
// storing it.
func (c *Client) Me(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.GetJSON(ctx, "/api/v1.1/me", &user); err != nil {
		return "", err
	}
	return user.Login, nil
}
