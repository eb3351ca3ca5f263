// Package config provides configuration management for cirunner.
//
// Two files are read. The project configuration lives in the repository
// (.github/ci_runner.yml) and overrides the patterns used to read logs. The
// user configuration lives in the home directory (~/.ci_runner/config.yml)
// and stores provider tokens.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	// Root is the working tree failures are resolved against.
	Root string
	// CacheDir is where downloaded logs are cached.
	CacheDir string

	Project *Project
	User    *User
}

// Load reads the project configuration under root and the user
// configuration from the home directory. An empty root means the current
// directory.
func Load(root string) (*Config, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	project, err := LoadProject(root)
	if err != nil {
		return nil, err
	}

	userPath, err := DefaultUserPath()
	if err != nil {
		return nil, err
	}

	user, err := LoadUser(userPath)
	if err != nil {
		return nil, err
	}

	return &Config{
		Root:     root,
		CacheDir: os.TempDir(),
		Project:  project,
		User:     user,
	}, nil
}
