// Package api exposes the analysis engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/cache"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/config"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/content"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/provider"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/repository/postgres"
)

// Ingester triggers CSV ingestion of the configured export files.
type Ingester interface {
	ImportFile(ctx context.Context, path, site string) (domain.IngestionRun, error)
}

// AnalysisStore persists computed analyses and reports database state.
type AnalysisStore interface {
	SaveAnalysisResult(ctx context.Context, analysisType string, resultData, summaryStats []byte) (int64, error)
	PartitionCounts(ctx context.Context) ([]postgres.PartitionCount, error)
	LastIngestion(ctx context.Context) (*domain.IngestionRun, error)
	Ping(ctx context.Context) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	provider  *provider.Provider
	store     AnalysisStore
	generator *content.Generator
	cache     cache.Cache
	cacheTTL  time.Duration
	importer  Ingester
	config    *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(p *provider.Provider, store AnalysisStore, gen *content.Generator, cfg *config.Config) *Handlers {
	return &Handlers{
		provider:  p,
		store:     store,
		generator: gen,
		config:    cfg,
	}
}

// SetCache sets the response cache used by the analysis endpoints
func (h *Handlers) SetCache(c cache.Cache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// SetImporter sets the CSV importer behind the migrate endpoint
func (h *Handlers) SetImporter(im Ingester) {
	h.importer = im
}

// HealthCheck reports process liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondSnapshotError maps a data-source failure to the right status: an
// empty store is a 404, anything else a 503.
func respondSnapshotError(w http.ResponseWriter, err error) {
	if err == provider.ErrNoData {
		respondError(w, http.StatusNotFound, "no keyword data has been ingested yet")
		return
	}
	respondError(w, http.StatusServiceUnavailable, "keyword data unavailable: "+err.Error())
}

// cached serves a computed payload through the response cache when one is
// configured. Cache failures fall through to a fresh computation.
func (h *Handlers) cached(w http.ResponseWriter, r *http.Request, key string, compute func() (interface{}, error)) {
	ck := cache.Key(key)
	if h.cache != nil {
		if body, found := h.cache.Get(r.Context(), ck); found {
			writeJSONBody(w, body)
			return
		}
	}

	data, err := compute()
	if err != nil {
		respondSnapshotError(w, err)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "encode response: "+err.Error())
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), ck, body, h.cacheTTL)
	}
	writeJSONBody(w, body)
}

func writeJSONBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// queryInt parses an integer query parameter, returning def when absent or
// malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
