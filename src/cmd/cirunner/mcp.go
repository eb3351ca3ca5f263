package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cirunner/src/config"
	"cirunner/src/logger"
	"cirunner/src/mcp"
	"cirunner/src/pipeline"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the list_checks and find_failures tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout so LLM agents can list
the CI checks of a commit and find the tests that failed.

Nothing but the protocol is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}

		p, err := pipeline.FromConfig(cfg, logger.NewSilentLogger())
		if err != nil {
			return err
		}

		if err := mcp.NewServer(p, cfg.Root).Run(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
