package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/cache"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/config"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/content"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/provider"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/repository/postgres"
)

// fakeBackend implements both the provider repository and the analysis store.
type fakeBackend struct {
	owner       []domain.KeywordRecord
	competitors map[string][]domain.KeywordRecord
	pingErr     error
	listErr     error
	savedTypes  []string
}

func (f *fakeBackend) ListOwner(context.Context) ([]domain.KeywordRecord, error) {
	return f.owner, f.listErr
}

func (f *fakeBackend) ListAllCompetitors(context.Context) (map[string][]domain.KeywordRecord, error) {
	return f.competitors, f.listErr
}

func (f *fakeBackend) Ping(context.Context) error { return f.pingErr }

func (f *fakeBackend) SaveAnalysisResult(_ context.Context, analysisType string, _, _ []byte) (int64, error) {
	f.savedTypes = append(f.savedTypes, analysisType)
	return int64(len(f.savedTypes)), nil
}

func (f *fakeBackend) PartitionCounts(context.Context) ([]postgres.PartitionCount, error) {
	counts := []postgres.PartitionCount{{Site: "", Count: len(f.owner)}}
	for site, recs := range f.competitors {
		counts = append(counts, postgres.PartitionCount{Site: site, Count: len(recs)})
	}
	return counts, nil
}

func (f *fakeBackend) LastIngestion(context.Context) (*domain.IngestionRun, error) {
	return nil, nil
}

func testBackend() *fakeBackend {
	return &fakeBackend{
		owner: []domain.KeywordRecord{
			{Keyword: "tokyo events", Volume: 850, OrganicTraffic: 680, CurrentPosition: 3, Informational: true, Location: "United States"},
			{Keyword: "tokyo nightlife guide", Volume: 400, OrganicTraffic: 120, CurrentPosition: 15, Commercial: true, Location: "United States"},
			{Keyword: "tokyo hidden bars", Volume: 900, OrganicTraffic: 0, CurrentPosition: domain.NotRankingPosition},
		},
		competitors: map[string][]domain.KeywordRecord{
			"tokyocheapo.com": {
				{Keyword: "tokyo cheap eats", CompetitorSite: "tokyocheapo.com", Volume: 1500, OrganicTraffic: 900, CurrentPosition: 4},
			},
		},
	}
}

func newTestServer(t *testing.T, backend *fakeBackend) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Competitors: config.CompetitorsConfig{
			DisplayNames: map[string]string{"tokyocheapo.com": "Tokyo Cheapo"},
		},
	}
	h := NewHandlers(provider.New(backend, nil), backend, content.NewGenerator(content.Config{}), cfg)
	srv := httptest.NewServer(SetupRoutes(h, []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/health", http.StatusOK)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestGetSummary(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/analysis/summary", http.StatusOK)
	if body["total_keywords"] != float64(3) {
		t.Errorf("total_keywords = %v", body["total_keywords"])
	}
	if body["total_volume"] != float64(2150) {
		t.Errorf("total_volume = %v", body["total_volume"])
	}
	if body["top_performing_keywords"] != float64(1) {
		t.Errorf("top_performing_keywords = %v", body["top_performing_keywords"])
	}
}

func TestGetPerformance(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/analysis/performance", http.StatusOK)
	dist, ok := body["position_distribution"].(map[string]interface{})
	if !ok {
		t.Fatalf("position_distribution missing: %v", body)
	}
	top3 := dist["top_3"].(map[string]interface{})
	if top3["count"] != float64(1) {
		t.Errorf("top_3 count = %v", top3["count"])
	}
	notRanking := dist["not_ranking"].(map[string]interface{})
	if notRanking["count"] != float64(1) {
		t.Errorf("not_ranking count = %v", notRanking["count"])
	}
}

func TestGetContentGaps(t *testing.T) {
	backend := testBackend()
	backend.owner = append(backend.owner,
		domain.KeywordRecord{Keyword: "tokyo festivals calendar", Volume: 2000, CurrentPosition: 45},
		domain.KeywordRecord{Keyword: "tokyo izakaya etiquette", Volume: 250, CurrentPosition: 18},
	)
	srv := newTestServer(t, backend)

	body := getJSON(t, srv.URL+"/api/analysis/content-gaps", http.StatusOK)

	high := body["high_volume_gaps"].([]interface{})
	if len(high) != 2 {
		t.Fatalf("high_volume_gaps = %v", high)
	}
	if kw := high[0].(map[string]interface{})["keyword"]; kw != "tokyo festivals calendar" {
		t.Errorf("high gap keyword = %v", kw)
	}
	if kw := high[1].(map[string]interface{})["keyword"]; kw != "tokyo hidden bars" {
		t.Errorf("second high gap keyword = %v", kw)
	}

	medium := body["medium_volume_opportunities"].([]interface{})
	keywords := map[string]bool{}
	for _, m := range medium {
		keywords[m.(map[string]interface{})["keyword"].(string)] = true
	}
	if !keywords["tokyo izakaya etiquette"] {
		t.Errorf("medium opportunities = %v", keywords)
	}
}

func TestGetKeywords_UnknownIntent(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/keywords?intent=bogus", http.StatusBadRequest)
	if body["error"] == nil {
		t.Error("expected error message")
	}
}

func TestSearchKeywords_LocationFilter(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/keywords/search?location=United+States", http.StatusOK)
	if body["total"] != float64(2) {
		t.Errorf("total = %v", body["total"])
	}
}

func TestGetCompetitorSummary(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/competitors/summary", http.StatusOK)
	comps := body["competitors"].([]interface{})
	if len(comps) != 1 {
		t.Fatalf("competitors = %v", comps)
	}
	first := comps[0].(map[string]interface{})
	if first["display_name"] != "Tokyo Cheapo" {
		t.Errorf("display_name = %v", first["display_name"])
	}
}

func TestGetCompetitorOpportunities_DefaultLimit(t *testing.T) {
	records := make([]domain.KeywordRecord, 0, 120)
	for i := 0; i < 120; i++ {
		records = append(records, domain.KeywordRecord{
			Keyword:         fmt.Sprintf("tokyo guide %03d", i),
			CompetitorSite:  "tokyocheapo.com",
			Volume:          200,
			CurrentPosition: 5,
		})
	}
	backend := &fakeBackend{
		competitors: map[string][]domain.KeywordRecord{"tokyocheapo.com": records},
	}
	srv := newTestServer(t, backend)

	body := getJSON(t, srv.URL+"/api/competitors/opportunities", http.StatusOK)
	if body["total"] != float64(100) {
		t.Errorf("default limit total = %v, want 100", body["total"])
	}

	body = getJSON(t, srv.URL+"/api/competitors/opportunities?limit=10", http.StatusOK)
	if body["total"] != float64(10) {
		t.Errorf("explicit limit total = %v, want 10", body["total"])
	}
}

func TestGetCompetitorComparison_OwnerKeys(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/competitors/tokyocheapo.com/comparison", http.StatusOK)
	rows := body["comparison"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("comparison rows = %d", len(rows))
	}
	row := rows[0].(map[string]interface{})
	if _, ok := row["tokyo_weekender_position"]; !ok {
		t.Error("comparison row missing tokyo_weekender_position key")
	}
	if row["status"] != "not_ranking" {
		t.Errorf("status = %v", row["status"])
	}
}

func TestGetCompetitorKeywords_UnknownSite(t *testing.T) {
	srv := newTestServer(t, testBackend())
	getJSON(t, srv.URL+"/api/competitors/unknown.example/keywords", http.StatusNotFound)
}

func TestEmptyStoreIs404(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{})
	getJSON(t, srv.URL+"/api/analysis/summary", http.StatusNotFound)
}

func TestDatabaseFailureIs503(t *testing.T) {
	backend := testBackend()
	backend.listErr = errors.New("connection refused")
	srv := newTestServer(t, backend)
	getJSON(t, srv.URL+"/api/analysis/summary", http.StatusServiceUnavailable)
}

func TestRefreshStoresAllViews(t *testing.T) {
	backend := testBackend()
	srv := newTestServer(t, backend)

	resp, err := http.Post(srv.URL+"/api/analysis/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(backend.savedTypes) != 3 {
		t.Errorf("saved types = %v", backend.savedTypes)
	}
}

func TestDatabaseStatus(t *testing.T) {
	srv := newTestServer(t, testBackend())
	body := getJSON(t, srv.URL+"/api/database/status", http.StatusOK)
	if body["connected"] != true {
		t.Errorf("connected = %v", body["connected"])
	}
	if body["total_records"] != float64(4) {
		t.Errorf("total_records = %v", body["total_records"])
	}
}

func TestMigrateWithoutImporter(t *testing.T) {
	srv := newTestServer(t, testBackend())
	resp, err := http.Post(srv.URL+"/api/database/migrate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST migrate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestCachedResponseSurvivesDataChange(t *testing.T) {
	backend := testBackend()
	cfg := &config.Config{}
	h := NewHandlers(provider.New(backend, nil), backend, content.NewGenerator(content.Config{}), cfg)
	h.SetCache(cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	srv := httptest.NewServer(SetupRoutes(h, nil))
	defer srv.Close()

	first := getJSON(t, srv.URL+"/api/analysis/summary", http.StatusOK)

	// Data changes under the cache; within the TTL the old payload is served.
	backend.owner = append(backend.owner, domain.KeywordRecord{Keyword: "new", Volume: 10, CurrentPosition: 5})
	second := getJSON(t, srv.URL+"/api/analysis/summary", http.StatusOK)
	if first["total_keywords"] != second["total_keywords"] {
		t.Errorf("cached read changed: %v vs %v", first["total_keywords"], second["total_keywords"])
	}
}
