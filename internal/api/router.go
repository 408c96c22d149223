package api

import (
	"net/http"
	"time"

	"github.com/nishantgupta83/mindful-living-search/pkg/health"
	"github.com/nishantgupta83/mindful-living-search/pkg/metrics"
	"github.com/nishantgupta83/mindful-living-search/pkg/middleware"
)

// NewRouter builds the HTTP handler with all routes and middleware.
//
// Route table:
//
//	GET  /api/v1/search         → ranked content search
//	GET  /api/v1/suggest        → prefix term suggestions
//	GET  /api/v1/terms/popular  → highest-document-frequency terms
//	GET  /api/v1/index/stats    → index and freshness state
//	POST /api/v1/index/clear    → drop index, force cold
//	GET  /health/live           → liveness probe
//	GET  /health/ready          → readiness probe
//
// Middleware chain (outermost first): RequestID → Metrics → Timeout.
func NewRouter(h *Handler, checker *health.Checker, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	// Go 1.21's ServeMux lacks method patterns ("GET /path"); enforce the
	// method here to keep the Go 1.22 semantics (405 + Allow on mismatch,
	// HEAD permitted on GET routes).
	handle := func(method, pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
				w.Header().Set("Allow", method)
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}
			fn(w, r)
		})
	}

	handle(http.MethodGet, "/api/v1/search", h.Search)
	handle(http.MethodGet, "/api/v1/suggest", h.Suggest)
	handle(http.MethodGet, "/api/v1/terms/popular", h.Popular)
	handle(http.MethodGet, "/api/v1/index/stats", h.Stats)
	handle(http.MethodPost, "/api/v1/index/clear", h.Clear)

	handle(http.MethodGet, "/health/live", checker.LiveHandler())
	handle(http.MethodGet, "/health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if requestTimeout > 0 {
		chain = middleware.Timeout(requestTimeout)(chain)
	}
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)
	return chain
}
