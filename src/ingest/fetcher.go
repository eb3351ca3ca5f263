package ingest

import (
	"context"
	"fmt"

	"cirunner/src/logger"
	"cirunner/src/provider"
)

// Downloader fetches the whole log of a check of one provider into buf.
type Downloader interface {
	Download(ctx context.Context, check provider.Check, buf *LogBuffer) error
}

// Fetcher returns the log of a check, from the cache when possible.
type Fetcher struct {
	cacheDir    string
	downloaders map[provider.Kind]Downloader
	logger      logger.Logger
}

// NewFetcher creates a fetcher caching logs under cacheDir.
func NewFetcher(cacheDir string, downloaders map[provider.Kind]Downloader, log logger.Logger) *Fetcher {
	return &Fetcher{
		cacheDir:    cacheDir,
		downloaders: downloaders,
		logger:      log,
	}
}

// FetchLog returns the log of check. A cached log is returned without any
// network request; otherwise the log is downloaded and cached.
func (f *Fetcher) FetchLog(ctx context.Context, check provider.Check) (*LogBuffer, error) {
	path := CachePath(f.cacheDir, check)

	cached, err := readCache(path)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		f.logger.Debug("Using cached log %s", path)
		return cached, nil
	}

	downloader, ok := f.downloaders[check.Kind]
	if !ok {
		return nil, provider.WrapError(fmt.Errorf("%s: %w", check.DisplayName(), provider.ErrUnsupportedProvider))
	}

	f.logger.Info("Downloading CI logs from %s", check.ProviderName())

	buf := NewLogBuffer(path)
	if err := downloader.Download(ctx, check, buf); err != nil {
		return nil, err
	}

	if err := writeCache(buf); err != nil {
		return nil, err
	}

	f.logger.Debug("Cached %d bytes at %s", buf.Len(), path)
	return buf, nil
}
