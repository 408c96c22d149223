package ranker

import (
	"math"
	"testing"

	"github.com/nishantgupta83/mindful-living-search/internal/search/concept"
	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
)

func scenarioIndex() *index.Index {
	return index.Build([]index.Document{
		{ID: "1", Title: "Work Stress", Tags: []string{"career"}},
		{ID: "2", Title: "Sleep Tips", Tags: []string{"health"}},
	})
}

func emptyGraph() *concept.Graph {
	return concept.New(nil)
}

func TestRankScenarioWorkStress(t *testing.T) {
	idx := scenarioIndex()
	results := Rank("work", idx, emptyGraph(), 20)

	if len(results) == 0 {
		t.Fatal("Rank(work) returned no results")
	}
	if results[0].DocID != "1" {
		t.Errorf("top result = %s, want doc 1", results[0].DocID)
	}
	if results[0].Score <= 0 {
		t.Errorf("doc 1 score = %v, want > 0", results[0].Score)
	}
	for _, r := range results {
		if r.DocID == "2" {
			t.Errorf("doc 2 appeared with score %v; it contains no query term", r.Score)
		}
	}
}

func TestRankEmptyQuery(t *testing.T) {
	idx := scenarioIndex()
	for _, q := range []string{"", "   ", "ok", "to be or"} {
		if results := Rank(q, idx, emptyGraph(), 20); len(results) != 0 {
			t.Errorf("Rank(%q) = %v, want empty", q, results)
		}
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	idx := index.Build(nil)
	if results := Rank("anything", idx, emptyGraph(), 20); len(results) != 0 {
		t.Errorf("Rank over empty corpus = %v, want empty", results)
	}
}

func TestRankExactBeatsFuzzy(t *testing.T) {
	idx := index.Build([]index.Document{
		{ID: "exact", Title: "Insomnia relief"},
		{ID: "fuzzy", Title: "Insomniac nights"},
		{ID: "other", Title: "Budget planning"},
	})
	results := Rank("insomnia", idx, emptyGraph(), 20)
	if len(results) < 2 {
		t.Fatalf("expected both exact and fuzzy docs, got %v", results)
	}
	if results[0].DocID != "exact" {
		t.Errorf("top result = %s, want exact-match doc", results[0].DocID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("exact score %v not above fuzzy score %v", results[0].Score, results[1].Score)
	}
}

func TestRankSemanticExpansion(t *testing.T) {
	graph := concept.New(map[string]map[string]float64{
		"stress": {"anxiety": 0.8},
	})
	idx := index.Build([]index.Document{
		{ID: "1", Title: "Anxiety management"},
		{ID: "2", Title: "Budget planning"},
	})
	results := Rank("stress", idx, graph, 20)
	if len(results) != 1 || results[0].DocID != "1" {
		t.Fatalf("Rank(stress) with expansion = %v, want doc 1 only", results)
	}
	if got := results[0].MatchedTerms; len(got) != 1 || got[0] != "anxiety" {
		t.Errorf("MatchedTerms = %v, want [anxiety]", got)
	}
}

func TestRankKeywordOutweighsSemantic(t *testing.T) {
	// doc "kw" hits the query term exactly; doc "sem" only hits the
	// expansion term. With 0.6/0.4 blending and the 2x exact boost the
	// keyword doc must rank first.
	graph := concept.New(map[string]map[string]float64{
		"stress": {"anxiety": 0.8},
	})
	idx := index.Build([]index.Document{
		{ID: "kw", Title: "Stress basics", Description: "daily routines"},
		{ID: "sem", Title: "Anxiety basics", Description: "daily routines"},
	})
	results := Rank("stress", idx, graph, 20)
	if len(results) < 2 {
		t.Fatalf("want two results, got %v", results)
	}
	if results[0].DocID != "kw" {
		t.Errorf("top result = %s, want keyword doc", results[0].DocID)
	}
}

func TestRankTieBreakByDocID(t *testing.T) {
	idx := index.Build([]index.Document{
		{ID: "b", Title: "Gratitude journal"},
		{ID: "a", Title: "Gratitude journal"},
		{ID: "c", Title: "Budget planning"},
	})
	results := Rank("gratitude", idx, emptyGraph(), 20)
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %v", results)
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("expected tied scores, got %v vs %v", results[0].Score, results[1].Score)
	}
	if results[0].DocID != "a" || results[1].DocID != "b" {
		t.Errorf("tie not broken by doc id: %s, %s", results[0].DocID, results[1].DocID)
	}
}

func TestRankLimit(t *testing.T) {
	docs := make([]index.Document, 0, 30)
	titles := []string{"Gratitude daily", "Gratitude weekly", "Calm evenings"}
	for i := 0; i < 30; i++ {
		docs = append(docs, index.Document{
			ID:    string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Title: titles[i%3],
		})
	}
	results := Rank("gratitude", index.Build(docs), emptyGraph(), 5)
	if len(results) > 5 {
		t.Errorf("limit not applied: got %d results", len(results))
	}
}

func TestIDFMonotonicity(t *testing.T) {
	idx := index.Build([]index.Document{
		{ID: "1", Title: "stress overload relief"},
		{ID: "2", Title: "stress management"},
		{ID: "3", Title: "stress and overload"},
		{ID: "4", Title: "calm evenings"},
	})
	rare := idfOf(idx, "calm")      // df 1
	mid := idfOf(idx, "overload")   // df 2
	common := idfOf(idx, "stress")  // df 3
	if !(rare > mid && mid > common) {
		t.Errorf("idf not monotonic: rare=%v mid=%v common=%v", rare, mid, common)
	}
	if got := idfOf(idx, "absent"); got != 0 {
		t.Errorf("idf(absent) = %v, want 0", got)
	}
	if math.IsInf(common, 0) || math.IsNaN(common) {
		t.Errorf("idf produced non-finite value %v", common)
	}
}
