package content

import (
	"context"
	"sync"

	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
)

// Memory is an in-process Store for tests and local development. FetchErr,
// when set, is returned instead of documents.
type Memory struct {
	mu       sync.Mutex
	docs     []index.Document
	fetchErr error
	fetches  int
}

// NewMemory seeds a Memory store with documents.
func NewMemory(docs []index.Document) *Memory {
	return &Memory{docs: docs}
}

// FetchActiveDocuments returns a copy of the seeded documents.
func (m *Memory) FetchActiveDocuments(ctx context.Context) ([]index.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]index.Document, len(m.docs))
	copy(out, m.docs)
	return out, nil
}

// SetDocuments replaces the seeded corpus.
func (m *Memory) SetDocuments(docs []index.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = docs
}

// SetFetchError makes subsequent fetches fail with err (nil to clear).
func (m *Memory) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// Fetches returns how many times FetchActiveDocuments was called.
func (m *Memory) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}
