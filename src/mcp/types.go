package mcp

import (
	"cirunner/src/pipeline"
	"cirunner/src/provider"
)

// ChecksResponse is the list_checks tool response.
type ChecksResponse struct {
	Repository string      `json:"repository"`
	Commit     string      `json:"commit"`
	Checks     []CheckInfo `json:"checks"`
}

// CheckInfo describes one check of a commit.
type CheckInfo struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Status    string `json:"status"`
	Supported bool   `json:"supported"`
}

// FailuresResponse is the find_failures tool response.
type FailuresResponse struct {
	*pipeline.Result
	Cached bool `json:"cached"`
}

func toCheckInfo(check provider.Check) CheckInfo {
	return CheckInfo{
		Name:      check.Name,
		Provider:  string(check.Kind),
		Status:    check.Status,
		Supported: check.Kind != provider.KindUnsupported,
	}
}
