package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cirunner/src/provider"
)

// CachePath is where the log of check is cached:
// <dir>/<repository>/log-<commit[:13]>-<name>.log
func CachePath(dir string, check provider.Check) string {
	commit := check.Commit
	if len(commit) > 13 {
		commit = commit[:13]
	}

	name := strings.ReplaceAll(check.Name, "/", "_")
	return filepath.Join(dir, filepath.FromSlash(check.Repository), fmt.Sprintf("log-%s-%s.log", commit, name))
}

// readCache returns the cached log at path, or nil when there is none.
func readCache(path string) (*LogBuffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached log %s: %w", path, err)
	}

	buf := NewLogBuffer(path)
	if _, err := buf.Write(data); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeCache stores buf at its path. The file only appears once fully
// written.
func writeCache(buf *LogBuffer) error {
	dir := filepath.Dir(buf.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return os.Rename(tmp.Name(), buf.Path)
}
