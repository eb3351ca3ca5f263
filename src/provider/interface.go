package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrInvalidURL          = errors.New("invalid build URL")
	ErrUnsupportedProvider = errors.New("unsupported CI provider")
)

// providerHosts maps the host of a commit status target URL to the provider
// that reported it.
var providerHosts = map[string]Kind{
	"circleci.com":  KindCircleCI,
	"buildkite.com": KindBuildkite,
}

// KindFromTargetURL detects the provider of a commit status from its target URL.
// Hosts nobody knows about yield KindUnsupported.
func KindFromTargetURL(target string) (Kind, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, target)
	}

	host := strings.ToLower(u.Hostname())
	if kind, ok := providerHosts[host]; ok {
		return kind, nil
	}
	return KindUnsupported, nil
}

// LastPathSegment returns the final segment of a URL path, ignoring the query.
// CircleCI build URLs look like https://circleci.com/gh/owner/repo/1234?utm_campaign=...
func LastPathSegment(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, target)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, target)
	}
	return last, nil
}
