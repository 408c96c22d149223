// Package content provides access to the wellness-article corpus. The engine
// only ever asks for the full active corpus; there is no incremental fetch.
package content

import (
	"context"

	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
)

// Store yields the current full corpus of active documents. Implementations
// must return an error wrapping errors.ErrCorpusFetch when the backing store
// is unreachable.
type Store interface {
	FetchActiveDocuments(ctx context.Context) ([]index.Document, error)
}
