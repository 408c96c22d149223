// Package engine ties the search components together behind one service
// object: it owns the index lifecycle (cold start, stale-while-revalidate
// refresh, hard expiry) and exposes the query API consumed by the HTTP layer.
//
// The served index is an immutable snapshot behind an atomic pointer. Readers
// never take a lock; a rebuild constructs a complete replacement generation
// and swaps it in, so queries observe either the old index or the new one,
// never a partial build.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nishantgupta83/mindful-living-search/internal/search/concept"
	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
	"github.com/nishantgupta83/mindful-living-search/internal/search/ranker"
	"github.com/nishantgupta83/mindful-living-search/internal/store/content"
	"github.com/nishantgupta83/mindful-living-search/internal/store/freshness"
	"github.com/nishantgupta83/mindful-living-search/pkg/config"
	pkgerrors "github.com/nishantgupta83/mindful-living-search/pkg/errors"
	"github.com/nishantgupta83/mindful-living-search/pkg/kafka"
	"github.com/nishantgupta83/mindful-living-search/pkg/metrics"
	"github.com/nishantgupta83/mindful-living-search/pkg/resilience"
)

// State is the freshness state of the served index.
type State string

const (
	StateCold    State = "cold"
	StateFresh   State = "fresh"
	StateAging   State = "aging"
	StateExpired State = "expired"
)

// MinPrefixLength is the shortest prefix accepted by SuggestTerms.
const MinPrefixLength = 2

// Notifier publishes index-lifecycle events. *kafka.Producer satisfies it.
type Notifier interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// snapshot is one fully built index generation.
type snapshot struct {
	idx        *index.Index
	generation uint64
	builtAt    time.Time
}

// Stats reports the state of the served index.
type Stats struct {
	IsIndexed       bool      `json:"is_indexed"`
	State           State     `json:"state"`
	Generation      uint64    `json:"generation"`
	BuiltAt         time.Time `json:"built_at,omitzero"`
	DocumentCount   int       `json:"document_count"`
	UniqueTermCount int       `json:"unique_term_count"`
	AvgTermsPerDoc  float64   `json:"avg_terms_per_document"`
	RebuildInFlight bool      `json:"rebuild_in_flight"`
}

// Engine is the content-search service. Collaborators are injected at
// construction; the engine is created once at application startup and torn
// down at shutdown.
type Engine struct {
	cfg     config.EngineConfig
	corpus  content.Store
	fresh   freshness.Store
	graph   *concept.Graph
	metrics *metrics.Metrics
	notify  Notifier
	logger  *slog.Logger
	now     func() time.Time

	snap       atomic.Pointer[snapshot]
	generation atomic.Uint64
	// restoredAt is the persisted build time loaded at startup, consulted
	// only before the first in-process build.
	restoredAt atomic.Pointer[time.Time]

	rebuildGroup    singleflight.Group
	rebuildInFlight atomic.Bool

	// background rebuilds outlive the request that triggered them; they
	// stop only at engine shutdown
	baseCtx context.Context
	stop    context.CancelFunc
}

// Option customises an Engine.
type Option func(*Engine)

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithNotifier attaches a rebuild-event publisher.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notify = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New constructs an Engine. Call Restore to load the persisted freshness
// marker and Close at shutdown.
func New(cfg config.EngineConfig, corpus content.Store, fresh freshness.Store, graph *concept.Graph, opts ...Option) *Engine {
	if cfg.SoftRefreshAge <= 0 {
		cfg.SoftRefreshAge = 25 * 24 * time.Hour
	}
	if cfg.HardExpiryAge <= cfg.SoftRefreshAge {
		cfg.HardExpiryAge = 30 * 24 * time.Hour
	}
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = 20
	}
	if cfg.DefaultSuggestions <= 0 {
		cfg.DefaultSuggestions = 5
	}
	if cfg.DefaultPopular <= 0 {
		cfg.DefaultPopular = 10
	}

	baseCtx, stop := context.WithCancel(context.Background())
	e := &Engine{
		cfg:     cfg,
		corpus:  corpus,
		fresh:   fresh,
		graph:   graph,
		logger:  slog.Default().With("component", "search-engine"),
		now:     time.Now,
		baseCtx: baseCtx,
		stop:    stop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore loads the persisted build timestamp so a restarted process resumes
// in the right freshness state. Store failures are non-fatal: the engine
// simply starts cold.
func (e *Engine) Restore(ctx context.Context) {
	builtAt, ok, err := e.fresh.LastBuiltAt(ctx)
	if err != nil {
		e.logger.Warn("freshness marker unreadable, starting cold", "error", err)
		return
	}
	if !ok {
		e.logger.Info("no freshness marker, starting cold")
		return
	}
	t := builtAt
	e.restoredAt.Store(&t)
	e.logger.Info("freshness marker restored",
		"last_built_at", builtAt,
		"state", string(e.State()),
	)
}

// Close stops background rebuilds.
func (e *Engine) Close() {
	e.stop()
}

// State derives the current freshness state. Before the first in-process
// build the persisted marker decides between cold, aging, and expired; a
// fresh marker still reports cold because there is no index to serve yet.
func (e *Engine) State() State {
	now := e.now()
	if snap := e.snap.Load(); snap != nil {
		return e.stateForAge(now.Sub(snap.builtAt))
	}
	if restored := e.restoredAt.Load(); restored != nil {
		switch e.stateForAge(now.Sub(*restored)) {
		case StateExpired:
			return StateExpired
		case StateAging:
			return StateAging
		}
	}
	return StateCold
}

func (e *Engine) stateForAge(age time.Duration) State {
	switch {
	case age >= e.cfg.HardExpiryAge:
		return StateExpired
	case age >= e.cfg.SoftRefreshAge:
		return StateAging
	default:
		return StateFresh
	}
}

// Search ranks the corpus against query and returns at most maxResults hits
// (engine default when <= 0). An empty query returns an empty list. When no
// index exists and the synchronous build fails, the empty result carries the
// build error so callers can record it; it is not a user-facing failure.
func (e *Engine) Search(ctx context.Context, query string, maxResults int) ([]ranker.Result, error) {
	if maxResults <= 0 {
		maxResults = e.cfg.DefaultMaxResults
	}
	snap, err := e.ensureIndex(ctx)
	if err != nil {
		return []ranker.Result{}, err
	}
	results := ranker.Rank(query, snap.idx, e.graph, maxResults)
	return results, nil
}

// SuggestTerms returns indexed terms with the given prefix, ranked by
// document frequency descending (term ascending on ties). Prefixes shorter
// than two characters yield no suggestions.
func (e *Engine) SuggestTerms(ctx context.Context, prefix string, maxSuggestions int) ([]string, error) {
	if maxSuggestions <= 0 {
		maxSuggestions = e.cfg.DefaultSuggestions
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < MinPrefixLength {
		return []string{}, nil
	}
	snap, err := e.ensureIndex(ctx)
	if err != nil {
		return []string{}, err
	}

	type candidate struct {
		term string
		df   int
	}
	var candidates []candidate
	for _, term := range snap.idx.Terms() {
		if strings.HasPrefix(term, prefix) {
			candidates = append(candidates, candidate{term: term, df: snap.idx.DocumentFrequency(term)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].df != candidates[j].df {
			return candidates[i].df > candidates[j].df
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.term
	}
	return terms, nil
}

// PopularTerms returns the indexed terms with the highest document frequency.
func (e *Engine) PopularTerms(ctx context.Context, maxTerms int) ([]string, error) {
	if maxTerms <= 0 {
		maxTerms = e.cfg.DefaultPopular
	}
	snap, err := e.ensureIndex(ctx)
	if err != nil {
		return []string{}, err
	}

	terms := snap.idx.Terms()
	sort.Slice(terms, func(i, j int) bool {
		dfI, dfJ := snap.idx.DocumentFrequency(terms[i]), snap.idx.DocumentFrequency(terms[j])
		if dfI != dfJ {
			return dfI > dfJ
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	return terms, nil
}

// IndexStats reports the served index without triggering a build.
func (e *Engine) IndexStats() Stats {
	stats := Stats{
		State:           e.State(),
		RebuildInFlight: e.rebuildInFlight.Load(),
	}
	if snap := e.snap.Load(); snap != nil {
		stats.IsIndexed = true
		stats.Generation = snap.generation
		stats.BuiltAt = snap.builtAt
		stats.DocumentCount = snap.idx.DocumentCount()
		stats.UniqueTermCount = snap.idx.TermCount()
		stats.AvgTermsPerDoc = snap.idx.AvgTermsPerDocument()
	}
	return stats
}

// ClearIndex drops the served index and the persisted freshness marker,
// forcing the engine back to cold. The next query blocks on a full rebuild.
func (e *Engine) ClearIndex(ctx context.Context) error {
	e.snap.Store(nil)
	e.restoredAt.Store(nil)
	if e.metrics != nil {
		e.metrics.IndexDocuments.Set(0)
		e.metrics.IndexTerms.Set(0)
		e.metrics.SetFreshnessState(string(StateCold))
	}
	if err := e.fresh.Clear(ctx); err != nil {
		e.logger.Warn("clearing freshness marker failed", "error", err)
		return err
	}
	e.logger.Info("index cleared")
	return nil
}

// ensureIndex returns a servable snapshot, applying the freshness policy:
// fresh serves directly, aging serves stale while a background rebuild runs,
// and cold or expired block on a synchronous rebuild.
func (e *Engine) ensureIndex(ctx context.Context) (*snapshot, error) {
	snap := e.snap.Load()
	if snap != nil {
		switch e.stateForAge(e.now().Sub(snap.builtAt)) {
		case StateFresh:
			return snap, nil
		case StateAging:
			e.triggerBackgroundRebuild()
			return snap, nil
		}
		// expired: fall through to a blocking rebuild; stale data is
		// past the hard limit and must not be served
	}

	trigger := "cold"
	if snap != nil {
		trigger = "expired"
	} else if e.State() == StateExpired {
		trigger = "expired"
	}
	if err := e.rebuild(trigger); err != nil {
		return nil, err
	}
	fresh := e.snap.Load()
	if fresh == nil {
		return nil, fmt.Errorf("%w: rebuild completed without a snapshot", pkgerrors.ErrNotIndexed)
	}
	return fresh, nil
}

// triggerBackgroundRebuild starts at most one rebuild goroutine. Failures
// only log; the aging snapshot keeps serving and the next aging-state request
// retries.
func (e *Engine) triggerBackgroundRebuild() {
	if !e.rebuildInFlight.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer e.rebuildInFlight.Store(false)
		if err := e.rebuild("aging"); err != nil {
			e.logger.Error("background rebuild failed, serving previous index", "error", err)
		}
	}()
}

// rebuild fetches the corpus and installs a new index generation. Concurrent
// callers share one execution. The fetch runs on the engine's base context:
// once started, a rebuild is never cancelled by an individual caller, only by
// shutdown.
func (e *Engine) rebuild(trigger string) error {
	_, err, _ := e.rebuildGroup.Do("rebuild", func() (any, error) {
		start := e.now()

		var docs []index.Document
		fetchErr := resilience.Retry(e.baseCtx, "corpus-fetch", resilience.RetryConfig{
			MaxAttempts: e.cfg.FetchRetries,
		}, func() error {
			var err error
			docs, err = e.corpus.FetchActiveDocuments(e.baseCtx)
			return err
		})
		if fetchErr != nil {
			e.observeRebuild(trigger, "failure", start)
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrCorpusFetch, fetchErr)
		}

		idx := index.Build(docs)
		builtAt := e.now()
		next := &snapshot{
			idx:        idx,
			generation: e.generation.Add(1),
			builtAt:    builtAt,
		}
		e.snap.Store(next)

		if err := e.fresh.SetLastBuiltAt(e.baseCtx, builtAt); err != nil {
			// the index is already serving; a missing marker only costs
			// an extra rebuild after the next restart
			e.logger.Warn("persisting freshness marker failed", "error", err)
		}

		e.observeRebuild(trigger, "success", start)
		e.logger.Info("index rebuilt",
			"trigger", trigger,
			"generation", next.generation,
			"documents", idx.DocumentCount(),
			"unique_terms", idx.TermCount(),
			"elapsed", e.now().Sub(start),
		)
		e.publishRebuilt(next)
		return nil, nil
	})
	return err
}

func (e *Engine) observeRebuild(trigger, outcome string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.RebuildsTotal.WithLabelValues(trigger, outcome).Inc()
	e.metrics.RebuildDuration.Observe(e.now().Sub(start).Seconds())
	if outcome == "success" {
		if snap := e.snap.Load(); snap != nil {
			e.metrics.IndexDocuments.Set(float64(snap.idx.DocumentCount()))
			e.metrics.IndexTerms.Set(float64(snap.idx.TermCount()))
		}
	}
	e.metrics.SetFreshnessState(string(e.State()))
}

// publishRebuilt announces the new generation so sibling instances can drop
// derived caches. Best effort: a publish failure never fails the rebuild.
func (e *Engine) publishRebuilt(snap *snapshot) {
	if e.notify == nil {
		return
	}
	ctx, cancel := context.WithTimeout(e.baseCtx, 5*time.Second)
	defer cancel()
	err := e.notify.Publish(ctx, kafka.Event{
		Key: fmt.Sprintf("generation-%d", snap.generation),
		Value: map[string]any{
			"generation":   snap.generation,
			"built_at":     snap.builtAt.UTC().Format(time.RFC3339Nano),
			"documents":    snap.idx.DocumentCount(),
			"unique_terms": snap.idx.TermCount(),
		},
	})
	if err != nil {
		e.logger.Warn("rebuild notification failed", "error", err)
	}
}
