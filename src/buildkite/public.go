package buildkite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"cirunner/src/provider"
)

const (
	// PublicBaseURL serves the web endpoints that expose public builds.
	PublicBaseURL = "https://buildkite.com"

	buildCacheTTL = 5 * time.Minute
)

// PublicClient reads public builds without any credentials. The data returned
// by the web endpoints is not exactly the API's.
type PublicClient struct {
	*provider.Client
	builds *cache.Cache
}

// NewPublicClient creates a client for buildkite.com.
func NewPublicClient() *PublicClient {
	return &PublicClient{
		Client: provider.NewClient("Buildkite", PublicBaseURL, nil),
		builds: cache.New(buildCacheTTL, 2*buildCacheTTL),
	}
}

func (c *PublicClient) build(ctx context.Context, org, pipeline string, buildNumber int) (*Build, error) {
	path := fmt.Sprintf("/%s/%s/builds/%d", org, pipeline, buildNumber)

	if cached, ok := c.builds.Get(path); ok {
		return cached.(*Build), nil
	}

	var build Build
	if err := c.GetJSON(ctx, path, &build); err != nil {
		return nil, err
	}

	c.builds.SetDefault(path, &build)
	return &build, nil
}

// PublicBuild reports whether the build can be read without authentication.
// Buildkite answers 403 for private builds; any other error is returned.
func (c *PublicClient) PublicBuild(ctx context.Context, org, pipeline string, buildNumber int) (bool, error) {
	_, err := c.build(ctx, org, pipeline, buildNumber)
	if err == nil {
		return true, nil
	}

	var reqErr *provider.RequestError
	if errors.As(err, &reqErr) && reqErr.Code == http.StatusForbidden {
		return false, nil
	}
	return false, err
}

// JobLogPaths returns the URL path of the raw log of every job of a build.
func (c *PublicClient) JobLogPaths(ctx context.Context, org, pipeline string, buildNumber int) ([]string, error) {
	build, err := c.build(ctx, org, pipeline, buildNumber)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(build.Jobs))
	for _, job := range build.Jobs {
		if job.BasePath == "" {
			continue
		}
		paths = append(paths, job.BasePath+"/raw_log")
	}
	return paths, nil
}

// DownloadLog downloads the raw log at path. buildkite.com redirects to the
// storage location of the log.
func (c *PublicClient) DownloadLog(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.Follow(ctx, resp)
}
