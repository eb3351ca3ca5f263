package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cirunner/src/buildkite"
	"cirunner/src/circleci"
	"cirunner/src/config"
	"cirunner/src/githubactions"
	"cirunner/src/provider"
)

var githubTokenCmd = &cobra.Command{
	Use:   "github-token TOKEN",
	Short: "Save a GitHub token in your config",
	Long: `Save a personal access GitHub token in the ~/.ci_runner/config.yml file.
The GitHub token is required to fetch CI checks and download logs from repositories.

You can get a token from GitHub by following this link:
https://github.com/settings/tokens/new?description=CI+Runner&scopes=repo`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		user, err := githubactions.NewClient(token).Me(cmd.Context())
		if err != nil {
			return invalidToken("GitHub", err)
		}

		return saveToken(user.Login, func(u *config.User) error { return u.SaveGitHubToken(token) })
	},
}

var circleCITokenCmd = &cobra.Command{
	Use:   "circle-ci-token TOKEN",
	Short: "Save a CircleCI token in your config",
	Long: `Save a personal CircleCI token in the ~/.ci_runner/config.yml file.
The token is only required to download logs of private projects.

You can create a token here: https://app.circleci.com/settings/user/tokens`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]

		login, err := circleci.NewClient(token).Me(cmd.Context())
		if err != nil {
			return invalidToken("CircleCI", err)
		}

		return saveToken(login, func(u *config.User) error { return u.SaveCircleCIToken(token) })
	},
}

var buildkiteTokenCmd = &cobra.Command{
	Use:   "buildkite-token TOKEN ORGANIZATION",
	Short: "Save a Buildkite token in your config",
	Long: `Save a Buildkite API access token in the ~/.ci_runner/config.yml file.
Buildkite tokens are scoped to an organization. The token is only required to
download logs of private builds.

The organization is the first segment of your build URLs:
https://buildkite.com/<organization>/<pipeline>/builds/<number>

You can create a token with the read_builds and read_build_logs scopes here:
https://buildkite.com/user/api-access-tokens/new`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, organization := args[0], strings.ToLower(args[1])

		accessToken, err := buildkite.NewClient(token).AccessToken(cmd.Context())
		if err != nil {
			return invalidToken("Buildkite", err)
		}

		return saveToken(organization+" ("+strings.Join(accessToken.Scopes, ", ")+")", func(u *config.User) error {
			return u.SaveBuildkiteToken(token, organization)
		})
	},
}

func invalidToken(providerName string, err error) error {
	return &provider.UserError{
		Message: fmt.Sprintf("Your token doesn't seem to be valid. The response from %s was:", providerName),
		Err:     err,
	}
}

func saveToken(owner string, save func(u *config.User) error) error {
	path, err := config.DefaultUserPath()
	if err != nil {
		return err
	}

	user, err := config.LoadUser(path)
	if err != nil {
		return err
	}

	if err := save(user); err != nil {
		return err
	}

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Fprint(os.Stdout, "Hello ")
	_, _ = yellow.Fprint(os.Stdout, owner)
	fmt.Fprint(os.Stdout, "! ")
	_, _ = green.Fprintln(os.Stdout, "Your token is valid!")
	fmt.Fprintln(os.Stdout)
	_, _ = cyan.Fprintf(os.Stdout, "The token has been saved in this file: %s\n", user.Path())
	return nil
}
