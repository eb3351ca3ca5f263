package githubactions

import (
	"cirunner/src/provider"
)

// ActionsAppSlug identifies check runs created by GitHub Actions. Check runs
// from other apps have no log we know how to download.
const ActionsAppSlug = "github-actions"

// ChecksFromRuns converts the GitHub Actions check runs of a commit.
func ChecksFromRuns(repository, commit string, runs []CheckRun) []provider.Check {
	checks := make([]provider.Check, 0, len(runs))

	for _, run := range runs {
		if run.App.Slug != ActionsAppSlug {
			continue
		}

		checks = append(checks, provider.Check{
			Kind:       provider.KindGitHub,
			Repository: repository,
			Commit:     commit,
			Name:       run.Name,
			Status:     run.Conclusion,
			ID:         run.ID,
		})
	}

	return checks
}

// ChecksFromStatuses converts commit statuses into checks, detecting the
// provider from the target URL. Statuses without a target URL, or with one
// that can't be parsed, are skipped.
func ChecksFromStatuses(repository, commit string, statuses []CommitStatus) []provider.Check {
	checks := make([]provider.Check, 0, len(statuses))

	for _, status := range statuses {
		if status.TargetURL == "" {
			continue
		}

		kind, err := provider.KindFromTargetURL(status.TargetURL)
		if err != nil {
			continue
		}

		checks = append(checks, provider.Check{
			Kind:       kind,
			Repository: repository,
			Commit:     commit,
			Name:       status.Context,
			Status:     status.State,
			URL:        status.TargetURL,
		})
	}

	return checks
}
