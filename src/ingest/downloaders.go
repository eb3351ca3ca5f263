package ingest

import (
	"context"
	"fmt"
	"strings"

	"cirunner/src/buildkite"
	"cirunner/src/circleci"
	"cirunner/src/githubactions"
	"cirunner/src/provider"
)

// TokenRequiredError is returned when a Buildkite build is private and no
// token is stored for its organization.
type TokenRequiredError struct {
	Organization string
	URL          string
}

func (e *TokenRequiredError) Error() string {
	return fmt.Sprintf("Can't get the log output from the Buildkite build %s because it requires authentication.\n\n"+
		"Please store a Buildkite token scoped to the organization %s and retry.\n"+
		"See: cirunner buildkite-token --help", e.URL, e.Organization)
}

// GitHubDownloader downloads GitHub Actions job logs, which come in one piece.
type GitHubDownloader struct {
	Client *githubactions.Client
}

func (d *GitHubDownloader) Download(ctx context.Context, check provider.Check, buf *LogBuffer) error {
	body, err := d.Client.DownloadLog(ctx, check.Repository, check.ID)
	if err != nil {
		return err
	}
	_, err = buf.Write(body)
	return err
}

// CircleCIDownloader downloads the output of every step of a CircleCI job.
type CircleCIDownloader struct {
	Client *circleci.Client
}

func (d *CircleCIDownloader) Download(ctx context.Context, check provider.Check, buf *LogBuffer) error {
	buildNumber, err := provider.LastPathSegment(check.URL)
	if err != nil {
		return err
	}

	job, err := d.Client.Job(ctx, check.Repository, buildNumber)
	if err != nil {
		return err
	}

	var segments []Segment
	for _, step := range job.Steps {
		for _, action := range step.Actions {
			if !action.HasOutput {
				continue
			}
			segments = append(segments, Segment{Name: action.Name, URL: action.OutputURL, Failed: action.Failed})
		}
	}

	return FetchSegments(ctx, Dedup(segments), func(ctx context.Context, s Segment) ([]byte, error) {
		output, err := d.Client.Output(ctx, s.URL)
		return []byte(output), err
	}, buf)
}

// TokenSource looks up stored provider tokens. organization scopes
// Buildkite tokens.
type TokenSource interface {
	TokenFor(kind provider.Kind, organization string) string
}

// BuildkiteDownloader downloads the log of every job of a Buildkite build.
// Public builds are read anonymously; private ones need a token scoped to
// the organization.
type BuildkiteDownloader struct {
	Public    *buildkite.PublicClient
	Tokens    TokenSource
	NewClient func(token string) *buildkite.Client
}

// NewBuildkiteDownloader creates a downloader talking to buildkite.com.
func NewBuildkiteDownloader(tokens TokenSource) *BuildkiteDownloader {
	return &BuildkiteDownloader{
		Public:    buildkite.NewPublicClient(),
		Tokens:    tokens,
		NewClient: buildkite.NewClient,
	}
}

func (d *BuildkiteDownloader) Download(ctx context.Context, check provider.Check, buf *LogBuffer) error {
	org, pipeline, number, err := buildkite.ParseBuildURL(check.URL)
	if err != nil {
		return err
	}

	public, err := d.Public.PublicBuild(ctx, org, pipeline, number)
	if err != nil {
		return err
	}

	var (
		locations []string
		fetch     func(ctx context.Context, location string) ([]byte, error)
	)

	if public {
		locations, err = d.Public.JobLogPaths(ctx, org, pipeline, number)
		fetch = d.Public.DownloadLog
	} else {
		token := d.Tokens.TokenFor(provider.KindBuildkite, strings.ToLower(org))
		if token == "" {
			return &TokenRequiredError{Organization: org, URL: check.URL}
		}

		client := d.NewClient(token)
		locations, err = client.JobLogURLs(ctx, org, pipeline, number)
		fetch = client.DownloadLog
	}
	if err != nil {
		return err
	}

	segments := make([]Segment, len(locations))
	for i, location := range locations {
		segments[i] = Segment{Name: location, URL: location}
	}

	return FetchSegments(ctx, segments, func(ctx context.Context, s Segment) ([]byte, error) {
		return fetch(ctx, s.URL)
	}, buf)
}
