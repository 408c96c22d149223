package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nishantgupta83/mindful-living-search/internal/search/concept"
	"github.com/nishantgupta83/mindful-living-search/internal/search/engine"
	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
	"github.com/nishantgupta83/mindful-living-search/internal/store/content"
	"github.com/nishantgupta83/mindful-living-search/internal/store/freshness"
	"github.com/nishantgupta83/mindful-living-search/pkg/config"
	"github.com/nishantgupta83/mindful-living-search/pkg/health"
)

func newTestServer(t *testing.T, docs []index.Document) (*httptest.Server, *content.Memory) {
	t.Helper()
	corpus := content.NewMemory(docs)
	eng := engine.New(config.Default().Engine, corpus, freshness.NewMemory(), concept.Default())
	t.Cleanup(eng.Close)

	handler := NewHandler(eng, nil, 100)
	router := NewRouter(handler, health.NewChecker(), nil, 5*time.Second)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, corpus
}

func testCorpus() []index.Document {
	return []index.Document{
		{ID: "1", Title: "Work Stress", Tags: []string{"career"}},
		{ID: "2", Title: "Sleep Tips", Tags: []string{"health"}},
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())

	var body SearchResponse
	status := getJSON(t, srv.URL+"/api/v1/search?q=work", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.TotalHits != 1 || len(body.Results) != 1 {
		t.Fatalf("body = %+v, want one hit", body)
	}
	if body.Results[0].DocID != "1" || body.Results[0].Score <= 0 {
		t.Errorf("result = %+v, want doc 1 with positive score", body.Results[0])
	}
}

func TestSearchMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())
	resp, err := http.Get(srv.URL + "/api/v1/search")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchBadLimit(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())
	for _, limit := range []string{"0", "-2", "abc"} {
		resp, err := http.Get(srv.URL + "/api/v1/search?q=work&limit=" + limit)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, resp.StatusCode)
		}
	}
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())
	var body SearchResponse
	status := getJSON(t, srv.URL+"/api/v1/search?q=ok", &body)
	if status != http.StatusOK || len(body.Results) != 0 {
		t.Errorf("short query: status=%d results=%v, want 200 with empty results", status, body.Results)
	}
}

func TestSearchDegradedReturnsEmpty(t *testing.T) {
	srv, corpus := newTestServer(t, testCorpus())
	corpus.SetFetchError(http.ErrHandlerTimeout)

	var body SearchResponse
	status := getJSON(t, srv.URL+"/api/v1/search?q=work", &body)
	if status != http.StatusOK {
		t.Errorf("degraded search status = %d, want 200", status)
	}
	if len(body.Results) != 0 {
		t.Errorf("degraded search results = %v, want empty", body.Results)
	}
}

func TestSuggestEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())

	var body TermsResponse
	status := getJSON(t, srv.URL+"/api/v1/suggest?prefix=wo", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(body.Terms) == 0 || body.Terms[0] != "work" {
		t.Errorf("Terms = %v, want [work ...]", body.Terms)
	}
}

func TestPopularEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())

	var body TermsResponse
	status := getJSON(t, srv.URL+"/api/v1/terms/popular?limit=3", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(body.Terms) == 0 || len(body.Terms) > 3 {
		t.Errorf("Terms = %v, want 1..3 terms", body.Terms)
	}
}

func TestStatsAndClearEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())

	var before engine.Stats
	getJSON(t, srv.URL+"/api/v1/index/stats", &before)
	if before.IsIndexed {
		t.Error("IsIndexed before first search, want false")
	}

	var search SearchResponse
	getJSON(t, srv.URL+"/api/v1/search?q=work", &search)

	var after engine.Stats
	getJSON(t, srv.URL+"/api/v1/index/stats", &after)
	if !after.IsIndexed || after.DocumentCount != 2 {
		t.Errorf("stats after search = %+v, want indexed with 2 docs", after)
	}

	resp, err := http.Post(srv.URL+"/api/v1/index/clear", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", resp.StatusCode)
	}

	var cleared engine.Stats
	getJSON(t, srv.URL+"/api/v1/index/stats", &cleared)
	if cleared.IsIndexed || cleared.State != engine.StateCold {
		t.Errorf("stats after clear = %+v, want cold and unindexed", cleared)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())

	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("live status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/health/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d, want 200 with no registered checks", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t, testCorpus())
	resp, err := http.Get(srv.URL + "/api/v1/index/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
