package gitinfo

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"cirunner/src/provider"
)

func TestParseRemotes(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name: "remote is preferred",
			output: "origin\tgit@github.com:Edouard-chin/rails.git (fetch)\n" +
				"origin\tgit@github.com:Edouard-chin/rails.git (push)\n" +
				"remote\tgit@github.com:rails/rails.git (fetch)\n" +
				"remote\tgit@github.com:rails/rails.git (push)\n",
			want: "rails/rails",
		},
		{
			name: "origin over anything else",
			output: "fork\thttps://github.com/someone/catana.git (fetch)\n" +
				"origin\thttps://github.com/catanacorp/catana (fetch)\n",
			want: "catanacorp/catana",
		},
		{
			name:   "any github remote",
			output: "upstream\tgit@github.com:catanacorp/catana.git (fetch)\n",
			want:   "catanacorp/catana",
		},
		{
			name:   "dots in the name",
			output: "origin\tgit@github.com:owner/my.repo.git (fetch)\n",
			want:   "owner/my.repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemotes(tt.output)
			if err != nil {
				t.Fatalf("ParseRemotes() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRemotes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRemotes_NoGitHubRemote(t *testing.T) {
	_, err := ParseRemotes("origin\tgit@gitlab.com:owner/repo.git (fetch)\n")

	var userErr *provider.UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("ParseRemotes() error = %v, want *provider.UserError", err)
	}
}

func TestHeadCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(cmd.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, output)
		}
	}

	ctx := context.Background()

	if _, err := HeadCommit(ctx, dir); err == nil {
		t.Error("HeadCommit() outside a repository should fail")
	}

	run("init", "-q")
	run("commit", "-q", "--allow-empty", "-m", "initial")
	run("remote", "add", "origin", "git@github.com:catanacorp/catana.git")

	commit, err := HeadCommit(ctx, dir)
	if err != nil {
		t.Fatalf("HeadCommit() error = %v", err)
	}
	if len(commit) != 40 {
		t.Errorf("HeadCommit() = %q, want a full sha", commit)
	}

	repo, err := RepositoryFromRemote(ctx, dir)
	if err != nil {
		t.Fatalf("RepositoryFromRemote() error = %v", err)
	}
	if repo != "catanacorp/catana" {
		t.Errorf("RepositoryFromRemote() = %q, want catanacorp/catana", repo)
	}
}
