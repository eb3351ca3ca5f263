package mcp

import (
	"sync"

	"cirunner/src/pipeline"
	"cirunner/src/provider"
)

// ResultStore keeps the results computed during the session, so asking
// twice about the same check doesn't read its log again.
type ResultStore interface {
	Store(result *pipeline.Result)
	Get(check provider.Check) (*pipeline.Result, bool)
}

// InMemoryStore is a thread-safe in-memory implementation of ResultStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[string]*pipeline.Result // kind:locator -> result
}

// NewInMemoryStore creates a new in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make(map[string]*pipeline.Result)}
}

func key(check provider.Check) string {
	return string(check.Kind) + ":" + check.Locator()
}

// Store saves a result under its check.
func (s *InMemoryStore) Store(result *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[key(result.Check)] = result
}

// Get retrieves the result of check.
func (s *InMemoryStore) Get(check provider.Check) (*pipeline.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[key(check)]
	return r, ok
}
