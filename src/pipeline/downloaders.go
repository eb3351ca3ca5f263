package pipeline

import (
	"cirunner/src/circleci"
	"cirunner/src/config"
	"cirunner/src/githubactions"
	"cirunner/src/ingest"
	"cirunner/src/provider"
)

var _ ingest.TokenSource = (*config.User)(nil)

// Downloaders returns the log downloader of every supported provider,
// authenticated with the tokens of user.
func Downloaders(user *config.User, github *githubactions.Client) map[provider.Kind]ingest.Downloader {
	return map[provider.Kind]ingest.Downloader{
		provider.KindGitHub:    &ingest.GitHubDownloader{Client: github},
		provider.KindCircleCI:  &ingest.CircleCIDownloader{Client: circleci.NewClient(user.TokenFor(provider.KindCircleCI, ""))},
		provider.KindBuildkite: ingest.NewBuildkiteDownloader(user),
	}
}
