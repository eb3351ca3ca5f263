package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cirunner/src/provider"
)

// UserConfigPath is the location of the user configuration relative to the
// home directory.
const UserConfigPath = ".ci_runner/config.yml"

// Environment variables taking precedence over stored tokens.
const (
	GitHubTokenEnv   = "GITHUB_TOKEN"
	CircleCITokenEnv = "CIRCLE_CI_TOKEN"
)

type tokenEntry struct {
	Token string `yaml:"token,omitempty"`
}

type buildkiteEntry struct {
	// Tokens are keyed by lower-cased organization slug.
	Tokens map[string]string `yaml:"tokens,omitempty"`
}

type userFile struct {
	GitHub    *tokenEntry     `yaml:"github,omitempty"`
	CircleCI  *tokenEntry     `yaml:"circle_ci,omitempty"`
	Buildkite *buildkiteEntry `yaml:"buildkite,omitempty"`
}

// User is the credential store.
type User struct {
	path string
	data userFile
}

// DefaultUserPath returns ~/.ci_runner/config.yml.
func DefaultUserPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, UserConfigPath), nil
}

// LoadUser reads the user configuration at path. A missing file yields an
// empty store that is created on the first save.
func LoadUser(path string) (*User, error) {
	u := &User{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return u, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &u.data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return u, nil
}

// Path returns the file backing the store.
func (u *User) Path() string {
	return u.path
}

// GitHubToken returns the GitHub token, GITHUB_TOKEN first.
func (u *User) GitHubToken() string {
	if token := os.Getenv(GitHubTokenEnv); token != "" {
		return token
	}
	if u.data.GitHub == nil {
		return ""
	}
	return u.data.GitHub.Token
}

// CircleCIToken returns the CircleCI token, CIRCLE_CI_TOKEN first.
func (u *User) CircleCIToken() string {
	if token := os.Getenv(CircleCITokenEnv); token != "" {
		return token
	}
	if u.data.CircleCI == nil {
		return ""
	}
	return u.data.CircleCI.Token
}

// BuildkiteToken returns the token stored for a Buildkite organization.
func (u *User) BuildkiteToken(organization string) string {
	if u.data.Buildkite == nil {
		return ""
	}
	return u.data.Buildkite.Tokens[strings.ToLower(organization)]
}

// TokenFor returns the token to use for a provider. organization is only
// meaningful for Buildkite.
func (u *User) TokenFor(kind provider.Kind, organization string) string {
	switch kind {
	case provider.KindGitHub:
		return u.GitHubToken()
	case provider.KindCircleCI:
		return u.CircleCIToken()
	case provider.KindBuildkite:
		return u.BuildkiteToken(organization)
	default:
		return ""
	}
}

// RequireGitHubToken fails when no GitHub token is available. GitHub answers
// 404 for private repositories when anonymous, which is confusing, so a
// token is always required.
func (u *User) RequireGitHubToken() error {
	if u.GitHubToken() != "" {
		return nil
	}
	return &provider.UserError{
		Message: "A GitHub token needs to be saved into your configuration before being able to use CI Runner.",
		Hint:    "Run: cirunner github-token TOKEN (or set " + GitHubTokenEnv + ")",
	}
}

// SaveGitHubToken stores the GitHub token.
func (u *User) SaveGitHubToken(token string) error {
	u.data.GitHub = &tokenEntry{Token: token}
	return u.save()
}

// SaveCircleCIToken stores the CircleCI token.
func (u *User) SaveCircleCIToken(token string) error {
	u.data.CircleCI = &tokenEntry{Token: token}
	return u.save()
}

// SaveBuildkiteToken stores a token scoped to a Buildkite organization.
func (u *User) SaveBuildkiteToken(token, organization string) error {
	if u.data.Buildkite == nil {
		u.data.Buildkite = &buildkiteEntry{}
	}
	if u.data.Buildkite.Tokens == nil {
		u.data.Buildkite.Tokens = make(map[string]string)
	}
	u.data.Buildkite.Tokens[strings.ToLower(organization)] = token
	return u.save()
}

func (u *User) save() error {
	if err := os.MkdirAll(filepath.Dir(u.path), 0o700); err != nil {
		return fmt.Errorf("your home directory is not writeable: %w", err)
	}

	data, err := yaml.Marshal(&u.data)
	if err != nil {
		return fmt.Errorf("failed to encode user configuration: %w", err)
	}

	if err := os.WriteFile(u.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", u.path, err)
	}
	return nil
}
