package freshness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgerrors "github.com/nishantgupta83/mindful-living-search/pkg/errors"
	pkgredis "github.com/nishantgupta83/mindful-living-search/pkg/redis"
)

const lastBuiltKey = "search:last_built_at"

// Redis stores the freshness timestamp as an RFC3339 string under a single
// key with no expiry.
type Redis struct {
	client *pkgredis.Client
	logger *slog.Logger
}

// NewRedis wraps a connected client.
func NewRedis(client *pkgredis.Client) *Redis {
	return &Redis{
		client: client,
		logger: slog.Default().With("component", "freshness-store"),
	}
}

// LastBuiltAt reads the persisted build time. A missing key is not an error.
func (r *Redis) LastBuiltAt(ctx context.Context) (time.Time, bool, error) {
	raw, err := r.client.Get(ctx, lastBuiltKey)
	if err != nil {
		if pkgredis.IsNilError(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("%w: reading %s: %v", pkgerrors.ErrCacheIO, lastBuiltKey, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// unreadable value is the same as no value, but worth a log line
		r.logger.Warn("discarding unparseable freshness timestamp", "value", raw, "error", err)
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// SetLastBuiltAt persists the build time.
func (r *Redis) SetLastBuiltAt(ctx context.Context, t time.Time) error {
	if err := r.client.Set(ctx, lastBuiltKey, t.UTC().Format(time.RFC3339Nano), 0); err != nil {
		return fmt.Errorf("%w: writing %s: %v", pkgerrors.ErrCacheIO, lastBuiltKey, err)
	}
	return nil
}

// Clear removes the persisted timestamp.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, lastBuiltKey); err != nil {
		return fmt.Errorf("%w: deleting %s: %v", pkgerrors.ErrCacheIO, lastBuiltKey, err)
	}
	return nil
}
