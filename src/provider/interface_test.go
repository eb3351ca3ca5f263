package provider

import (
	"errors"
	"testing"
)

func TestKindFromTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Kind
		wantErr bool
	}{
		{
			name: "circleci",
			url:  "https://circleci.com/gh/owner/repo/3230?utm_campaign=vcs-integration-link",
			want: KindCircleCI,
		},
		{
			name: "buildkite",
			url:  "https://buildkite.com/katana/test/builds/1",
			want: KindBuildkite,
		},
		{
			name: "unknown host",
			url:  "https://travis-ci.com/owner/repo/builds/1",
			want: KindUnsupported,
		},
		{
			name:    "not a URL",
			url:     "no host here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindFromTargetURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("KindFromTargetURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("KindFromTargetURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastPathSegment(t *testing.T) {
	got, err := LastPathSegment("https://circleci.com/gh/owner/repo/3230?utm_campaign=vcs-integration-link")
	if err != nil {
		t.Fatalf("LastPathSegment() error = %v", err)
	}
	if got != "3230" {
		t.Errorf("LastPathSegment() = %q, want 3230", got)
	}

	if _, err := LastPathSegment("https://circleci.com/"); err == nil {
		t.Error("LastPathSegment() on empty path should fail")
	}
}

func TestCheck(t *testing.T) {
	gh := Check{Kind: KindGitHub, Name: "Ruby 3.1", Status: "failure", ID: 1234}
	if !gh.Failed() || gh.Success() {
		t.Errorf("failure check: Failed() = %v, Success() = %v", gh.Failed(), gh.Success())
	}
	if gh.Locator() != "1234" {
		t.Errorf("Locator() = %q, want 1234", gh.Locator())
	}
	if gh.ProviderName() != "GitHub" {
		t.Errorf("ProviderName() = %q, want GitHub", gh.ProviderName())
	}

	unsupported := Check{Kind: KindUnsupported, Name: "travis", Status: "error", URL: "https://travis-ci.com/x"}
	if unsupported.DisplayName() != "travis (Unsupported by CI Runner)" {
		t.Errorf("DisplayName() = %q", unsupported.DisplayName())
	}
	if unsupported.Locator() != "https://travis-ci.com/x" {
		t.Errorf("Locator() = %q", unsupported.Locator())
	}
}
