// Package mcp exposes cirunner to LLM agents over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cirunner/src/discovery"
	"cirunner/src/gitinfo"
	"cirunner/src/pipeline"
	"cirunner/src/provider"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Runner is the part of the pipeline the tools need.
type Runner interface {
	Checks(ctx context.Context, repository, commit string) ([]provider.Check, error)
	Run(ctx context.Context, check provider.Check) (*pipeline.Result, error)
}

// Server is the MCP server for cirunner.
type Server struct {
	mcpServer *server.MCPServer
	runner    Runner
	store     ResultStore
	// root is the working tree the commit and repository are inferred from.
	root string
}

// NewServer creates a new MCP server.
func NewServer(runner Runner, root string) *Server {
	s := server.NewMCPServer(
		"cirunner",
		Version,
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		runner:    runner,
		store:     NewInMemoryStore(),
		root:      root,
	}
	srv.registerTools()

	return srv
}

func (s *Server) registerTools() {
	repositoryArg := mcp.WithString("repository",
		mcp.Description("GitHub repository (owner/name). Inferred from the git remote by default."),
	)
	commitArg := mcp.WithString("commit",
		mcp.Description("Commit the CI ran on. Defaults to HEAD of the working tree."),
	)

	checksTool := mcp.NewTool("list_checks",
		mcp.WithDescription("List the CI checks reported on a commit (GitHub Actions, CircleCI, Buildkite) with their status."),
		repositoryArg,
		commitArg,
	)

	failuresTool := mcp.NewTool("find_failures",
		mcp.WithDescription("Download the log of a failed CI check and return the failing tests with their local file, the test framework, seed, Ruby version and Gemfile the CI used."),
		mcp.WithString("run_name",
			mcp.Required(),
			mcp.Description("Name of the failed CI check, as returned by list_checks"),
		),
		repositoryArg,
		commitArg,
	)

	s.mcpServer.AddTool(checksTool, s.handleListChecks)
	s.mcpServer.AddTool(failuresTool, s.handleFindFailures)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// target returns the repository and commit of a request, falling back to the
// local git repository.
func (s *Server) target(ctx context.Context, request mcp.CallToolRequest) (string, string, error) {
	repository := request.GetString("repository", "")
	if repository == "" {
		var err error
		if repository, err = gitinfo.RepositoryFromRemote(ctx, s.root); err != nil {
			return "", "", err
		}
	}

	commit := request.GetString("commit", "")
	if commit == "" {
		var err error
		if commit, err = gitinfo.HeadCommit(ctx, s.root); err != nil {
			return "", "", err
		}
	}

	return repository, commit, nil
}

func (s *Server) handleListChecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repository, commit, err := s.target(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	checks, err := s.runner.Checks(ctx, repository, commit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing checks failed: %v", err)), nil
	}

	response := ChecksResponse{Repository: repository, Commit: commit, Checks: make([]CheckInfo, len(checks))}
	for i, check := range checks {
		response.Checks[i] = toCheckInfo(check)
	}

	return jsonResult(response)
}

func (s *Server) handleFindFailures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("run_name", "")
	if name == "" {
		return mcp.NewToolResultError("run_name parameter is required"), nil
	}

	repository, commit, err := s.target(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	checks, err := s.runner.Checks(ctx, repository, commit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing checks failed: %v", err)), nil
	}

	check, err := discovery.Find(checks, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result, ok := s.store.Get(check); ok {
		return jsonResult(FailuresResponse{Result: result, Cached: true})
	}

	result, err := s.runner.Run(ctx, check)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("finding failures failed: %v", err)), nil
	}
	s.store.Store(result)

	return jsonResult(FailuresResponse{Result: result})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
