// Package main provides the cirunner command line tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cirunner/src/config"
	"cirunner/src/discovery"
	"cirunner/src/gitinfo"
	"cirunner/src/logger"
	"cirunner/src/pipeline"
	"cirunner/src/provider"
	"cirunner/src/tui"
)

var version = "dev"

var (
	verbose    bool
	jsonOutput bool
	commit     string
	repository string
	runName    string
)

var rootCmd = &cobra.Command{
	Use:   "cirunner",
	Short: "Find the tests that failed on CI",
	Long: `cirunner grabs the CI checks that failed on a GitHub commit, downloads and parses
the log of the one you pick and reports exactly which tests failed, together with the
seed, the Ruby version and the Gemfile the CI used.

GitHub Actions, CircleCI and Buildkite are supported, running Minitest or RSpec.

All flags are optional. The commit and the repository are inferred from your local
repository when omitted.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine.
		_ = godotenv.Load()
	},
	RunE: runFailures,
}

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Report the failing tests of a CI check (default command)",
	RunE:  runFailures,
}

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the CI checks of a commit",
	RunE:  runChecks,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, failuresCmd, checksCmd} {
		cmd.Flags().StringVar(&commit, "commit", "", "The commit that was pushed to GitHub and has a failing CI. Defaults to HEAD")
		cmd.Flags().StringVar(&repository, "repository", "", "The repository on which the CI failed (catanacorp/catana). Defaults to the git remote")
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	}
	for _, cmd := range []*cobra.Command{rootCmd, failuresCmd} {
		cmd.Flags().StringVar(&runName, "run-name", "", "The CI check to inspect when several failed. Prompts by default")
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(failuresCmd, checksCmd, mcpCmd)
	rootCmd.AddCommand(githubTokenCmd, circleCITokenCmd, buildkiteTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintf(os.Stderr, "\n%v\n", err)
}

// setup loads the configuration and resolves the commit and repository of
// the invocation.
func setup(ctx context.Context, log logger.Logger) (*pipeline.Pipeline, string, string, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, "", "", err
	}

	if err := cfg.User.RequireGitHubToken(); err != nil {
		return nil, "", "", err
	}

	p, err := pipeline.FromConfig(cfg, log)
	if err != nil {
		return nil, "", "", err
	}

	sha := commit
	if sha == "" {
		if sha, err = gitinfo.HeadCommit(ctx, cfg.Root); err != nil {
			return nil, "", "", err
		}
	}

	repo := repository
	if repo == "" {
		if repo, err = gitinfo.RepositoryFromRemote(ctx, cfg.Root); err != nil {
			return nil, "", "", err
		}
	}

	return p, repo, sha, nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

func runChecks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.NewConsoleLogger(verbose)

	p, repo, sha, err := setup(ctx, log)
	if err != nil {
		return err
	}

	var checks []provider.Check
	err = withSpinner("Fetching CI checks", func() error {
		checks, err = p.Checks(ctx, repo, sha)
		return err
	})
	if err != nil {
		return &provider.UserError{Message: "Couldn't fetch the CI checks.", Err: err}
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(checks)
	}

	printChecks(os.Stdout, checks)
	return nil
}

func runFailures(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.NewConsoleLogger(verbose)

	p, repo, sha, err := setup(ctx, log)
	if err != nil {
		return err
	}

	var checks []provider.Check
	err = withSpinner("Fetching CI checks", func() error {
		checks, err = p.Checks(ctx, repo, sha)
		return err
	})
	if err != nil {
		return &provider.UserError{Message: "Couldn't fetch the CI checks.", Err: err}
	}

	check, err := selectCheck(checks)
	if err != nil {
		return err
	}

	var result *pipeline.Result
	err = withSpinner("Downloading and parsing the log of "+check.Name, func() error {
		result, err = p.Run(ctx, check)
		return err
	})
	if err != nil {
		return err
	}

	if len(result.Failures) == 0 {
		return noFailuresError(result)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Fprintln(os.Stdout, tui.RenderReport(result, nil))
	return nil
}

// selectCheck picks the check named by --run-name, the only failed check,
// or asks the user.
func selectCheck(checks []provider.Check) (provider.Check, error) {
	if runName != "" {
		return discovery.Find(checks, runName)
	}

	failed := discovery.Failed(checks)
	switch {
	case len(failed) == 0:
		return provider.Check{}, &provider.UserError{Message: "No CI checks failed on this commit."}
	case len(failed) == 1:
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Fprintf(os.Stderr, "Automatically selected the CI check %s because it's the only one failing.\n", failed[0].Name)
		return discovery.Find(checks, failed[0].Name)
	case !interactive():
		return provider.Check{}, &provider.UserError{
			Message: "Multiple CI checks failed for this commit:\n\n" + formatChecks(failed),
			Hint:    "Pass the one to inspect with --run-name.",
		}
	}

	check, err := tui.PickCheck(failed, os.Stdin, os.Stderr)
	if err != nil {
		return provider.Check{}, err
	}
	return discovery.Find(checks, check.Name)
}

func noFailuresError(result *pipeline.Result) error {
	name := result.Kind.Name()
	return &provider.UserError{
		Message: fmt.Sprintf("Couldn't detect any %s test failures from the log output. This can be either because:\n\n"+
			"- The selected CI is not running %s tests.\n"+
			"- The default set of patterns failed to match the failures.", name, name),
		Hint: fmt.Sprintf("If your application is using custom reporters, configure the patterns in %s.\n"+
			"The CI log output has been downloaded to %s if you need to inspect it.", config.ProjectPath, result.LogPath),
	}
}
