// Package gitinfo infers the commit and the GitHub repository of the local
// working tree, so users don't have to pass them on every invocation.
package gitinfo

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"cirunner/src/provider"
)

// github.com remote, as listed by `git remote -v`.
const remotePattern = `\s+(?:git@|https://)github\.com(?::|/)([a-zA-Z0-9\-_.]+)/([a-zA-Z0-9\-_.]+?)(?:\.git)?\s+\((?:fetch|push)\)`

// Remotes are preferred in this order. Contributors of a fork usually name
// the upstream remote "remote".
var remotes = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^remote` + remotePattern),
	regexp.MustCompile(`(?m)^origin` + remotePattern),
	regexp.MustCompile(remotePattern),
}

// HeadCommit returns the commit checked out in dir.
func HeadCommit(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", &provider.UserError{
			Message: "Couldn't determine the commit. The commit is required to download the right CI logs.",
			Hint:    "Please pass the --commit flag (cirunner --commit <commit>)",
			Err:     err,
		}
	}
	return strings.TrimSpace(string(output)), nil
}

// RepositoryFromRemote returns the owner/name of the GitHub repository dir
// was cloned from.
func RepositoryFromRemote(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "-v")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", &provider.UserError{
			Message: "Couldn't determine the name of the repository.",
			Hint:    "Please pass the --repository flag (cirunner --repository <owner/repository_name>)",
			Err:     err,
		}
	}
	return ParseRemotes(string(output))
}

// ParseRemotes picks the repository out of the output of `git remote -v`.
func ParseRemotes(output string) (string, error) {
	for _, re := range remotes {
		if m := re.FindStringSubmatch(output); m != nil {
			return fmt.Sprintf("%s/%s", m[1], m[2]), nil
		}
	}

	return "", &provider.UserError{
		Message: "Couldn't determine the repository name based on the git remote.",
		Hint:    "Please pass the --repository flag (cirunner --repository <owner/repository_name>)",
	}
}
