// Package api exposes the search engine over HTTP: search, term suggestion,
// popular terms, index stats, and an admin endpoint to drop the index.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nishantgupta83/mindful-living-search/internal/search/engine"
	"github.com/nishantgupta83/mindful-living-search/internal/search/ranker"
	"github.com/nishantgupta83/mindful-living-search/internal/search/tokenizer"
	pkgerrors "github.com/nishantgupta83/mindful-living-search/pkg/errors"
	"github.com/nishantgupta83/mindful-living-search/pkg/logger"
	"github.com/nishantgupta83/mindful-living-search/pkg/metrics"
)

// Service is the engine surface the handlers need. *engine.Engine satisfies
// it; tests may substitute fakes.
type Service interface {
	Search(ctx context.Context, query string, maxResults int) ([]ranker.Result, error)
	SuggestTerms(ctx context.Context, prefix string, maxSuggestions int) ([]string, error)
	PopularTerms(ctx context.Context, maxTerms int) ([]string, error)
	IndexStats() engine.Stats
	ClearIndex(ctx context.Context) error
}

// SearchResponse is the envelope returned by the search endpoint.
type SearchResponse struct {
	Query     string          `json:"query"`
	TotalHits int             `json:"total_hits"`
	Results   []ranker.Result `json:"results"`
}

// TermsResponse is the envelope for suggestion and popular-terms endpoints.
type TermsResponse struct {
	Terms []string `json:"terms"`
}

// Handler serves the search API.
type Handler struct {
	svc      Service
	metrics  *metrics.Metrics
	maxLimit int
	logger   *slog.Logger
}

// NewHandler creates a Handler. maxLimit caps the per-request result limit.
func NewHandler(svc Service, m *metrics.Metrics, maxLimit int) *Handler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Handler{
		svc:      svc,
		metrics:  m,
		maxLimit: maxLimit,
		logger:   slog.Default().With("component", "api"),
	}
}

// Search handles GET /api/v1/search?q=...&limit=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, ok := h.parseLimit(w, r, 0)
	if !ok {
		return
	}

	results, err := h.svc.Search(ctx, query, limit)
	if err != nil {
		// a cold build failure yields an empty result set for the
		// caller; the error is internal observability only
		log.Error("search degraded, returning empty results", "query", query, "error", err)
		h.observeSearch("error", 0, start)
		h.writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: []ranker.Result{}})
		return
	}

	outcome := "hit"
	if len(results) == 0 {
		outcome = "zero_result"
		if len(tokenizer.Tokenize(query)) == 0 {
			outcome = "empty_query"
		}
	}
	h.observeSearch(outcome, len(results), start)
	log.Info("search completed",
		"query", query,
		"hits", len(results),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     query,
		TotalHits: len(results),
		Results:   results,
	})
}

// Suggest handles GET /api/v1/suggest?prefix=...&limit=...
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'prefix' is required")
		return
	}
	limit, ok := h.parseLimit(w, r, 0)
	if !ok {
		return
	}

	terms, err := h.svc.SuggestTerms(ctx, prefix, limit)
	if err != nil {
		logger.FromContext(ctx).Error("suggest failed", "prefix", prefix, "error", err)
		h.writeJSON(w, http.StatusOK, TermsResponse{Terms: []string{}})
		return
	}
	if h.metrics != nil {
		h.metrics.SuggestQueriesTotal.Inc()
	}
	h.writeJSON(w, http.StatusOK, TermsResponse{Terms: terms})
}

// Popular handles GET /api/v1/terms/popular?limit=...
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, ok := h.parseLimit(w, r, 0)
	if !ok {
		return
	}
	terms, err := h.svc.PopularTerms(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error("popular terms failed", "error", err)
		h.writeJSON(w, http.StatusOK, TermsResponse{Terms: []string{}})
		return
	}
	h.writeJSON(w, http.StatusOK, TermsResponse{Terms: terms})
}

// Stats handles GET /api/v1/index/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.IndexStats())
}

// Clear handles POST /api/v1/index/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearIndex(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("clear index failed", "error", err)
		h.writeError(w, pkgerrors.HTTPStatusCode(err), "clearing index failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// parseLimit reads the optional limit parameter. Zero means "engine default".
func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit, true
}

func (h *Handler) observeSearch(outcome string, hits int, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	h.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	h.metrics.SearchResultsCount.Observe(float64(hits))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
