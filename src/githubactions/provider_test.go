package githubactions

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cirunner/src/provider"
)

func TestChecksFromRuns(t *testing.T) {
	runs := []CheckRun{
		{ID: 1, Name: "Ruby 3.2", Conclusion: "failure", App: App{Slug: "github-actions"}},
		{ID: 2, Name: "codecov/patch", Conclusion: "success", App: App{Slug: "codecov"}},
		{ID: 3, Name: "Lint", Conclusion: "success", App: App{Slug: "github-actions"}},
	}

	got := ChecksFromRuns("owner/repo", "abc", runs)
	want := []provider.Check{
		{Kind: provider.KindGitHub, Repository: "owner/repo", Commit: "abc", Name: "Ruby 3.2", Status: "failure", ID: 1},
		{Kind: provider.KindGitHub, Repository: "owner/repo", Commit: "abc", Name: "Lint", Status: "success", ID: 3},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ChecksFromRuns() mismatch (-want +got):\n%s", diff)
	}
}

func TestChecksFromStatuses(t *testing.T) {
	statuses := []CommitStatus{
		{Context: "ci/circleci: test", State: "failure", TargetURL: "https://circleci.com/gh/owner/repo/3230?utm_campaign=vcs-integration-link"},
		{Context: "buildkite/ci", State: "success", TargetURL: "https://buildkite.com/org/ci/builds/7"},
		{Context: "travis", State: "error", TargetURL: "https://travis-ci.com/owner/repo/builds/1"},
		{Context: "no-url", State: "pending"},
	}

	got := ChecksFromStatuses("owner/repo", "abc", statuses)

	wantKinds := []provider.Kind{provider.KindCircleCI, provider.KindBuildkite, provider.KindUnsupported}
	if len(got) != len(wantKinds) {
		t.Fatalf("len(checks) = %d, want %d", len(got), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if got[i].Kind != kind {
			t.Errorf("checks[%d].Kind = %v, want %v", i, got[i].Kind, kind)
		}
		if got[i].URL != statuses[i].TargetURL {
			t.Errorf("checks[%d].URL = %q, want %q", i, got[i].URL, statuses[i].TargetURL)
		}
	}
}
