// Package ingest downloads the log of a CI check, concurrently when the
// provider splits it into many segments, and caches it on disk.
package ingest

import (
	"bytes"
	"sync"
)

// LogBuffer accumulates log content. Writes are serialized so it can be
// shared by the download workers; it is read only once the download is done.
type LogBuffer struct {
	// Path is the cache file backing the buffer.
	Path string

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogBuffer creates an empty buffer cached at path.
func NewLogBuffer(path string) *LogBuffer {
	return &LogBuffer{Path: path}
}

// Write appends p. It implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Bytes returns the content.
func (b *LogBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

// String returns the content.
func (b *LogBuffer) String() string {
	return string(b.Bytes())
}

// Len returns the size of the content.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}
