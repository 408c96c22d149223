package freshness

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and local development.
type Memory struct {
	mu   sync.Mutex
	t    time.Time
	set  bool
	fail error
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// LastBuiltAt returns the stored time, if any.
func (m *Memory) LastBuiltAt(ctx context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return time.Time{}, false, m.fail
	}
	return m.t, m.set, nil
}

// SetLastBuiltAt stores the time.
func (m *Memory) SetLastBuiltAt(ctx context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.t = t
	m.set = true
	return nil
}

// Clear removes the stored time.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = time.Time{}
	m.set = false
	return nil
}

// SetError makes subsequent reads and writes fail with err (nil to clear).
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}
