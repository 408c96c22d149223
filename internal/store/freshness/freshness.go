// Package freshness persists the index freshness marker. Only the build
// timestamp survives restarts; the index itself is always rebuilt in memory.
package freshness

import (
	"context"
	"time"
)

// Store reads and writes the last successful build time. Implementations
// wrap failures with errors.ErrCacheIO; callers treat those as "no timestamp"
// rather than fatal.
type Store interface {
	// LastBuiltAt returns the persisted build time. The bool is false when
	// no timestamp has ever been written.
	LastBuiltAt(ctx context.Context) (time.Time, bool, error)

	// SetLastBuiltAt persists the build time.
	SetLastBuiltAt(ctx context.Context, t time.Time) error

	// Clear removes the persisted timestamp.
	Clear(ctx context.Context) error
}
