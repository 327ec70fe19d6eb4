package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/analytics"
)

// GetSummary returns the owner site's headline numbers.
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "analysis:summary", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return analytics.Summary(snap.Owner), nil
	})
}

// GetPerformance returns position and intent distributions plus the
// high-performance and improvement keyword sets.
func (h *Handlers) GetPerformance(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "analysis:performance", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return analytics.Performance(snap.Owner), nil
	})
}

// GetSERPFeatures returns per-feature aggregates for the owner keywords.
func (h *Handlers) GetSERPFeatures(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "analysis:serp-features", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"serp_features": analytics.SERPFeatureAnalysis(snap.Owner),
		}, nil
	})
}

// GetContentGaps returns owner keywords with unrealized search volume.
func (h *Handlers) GetContentGaps(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "analysis:content-gaps", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return analytics.ContentGapAnalysis(snap.Owner), nil
	})
}

// RefreshAnalysis recomputes every analysis view, persists each one, and
// drops the response cache so the next reads serve fresh numbers.
func (h *Handlers) RefreshAnalysis(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	summary := analytics.Summary(snap.Owner)
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "encode summary: "+err.Error())
		return
	}

	views := map[string]interface{}{
		"performance":   analytics.Performance(snap.Owner),
		"serp_features": analytics.SERPFeatureAnalysis(snap.Owner),
		"content_gaps":  analytics.ContentGapAnalysis(snap.Owner),
	}

	stored := make([]string, 0, len(views))
	for _, name := range []string{"performance", "serp_features", "content_gaps"} {
		data, err := json.Marshal(views[name])
		if err != nil {
			respondError(w, http.StatusInternalServerError, "encode "+name+": "+err.Error())
			return
		}
		if _, err := h.store.SaveAnalysisResult(r.Context(), name, data, summaryJSON); err != nil {
			respondError(w, http.StatusInternalServerError, "store "+name+": "+err.Error())
			return
		}
		stored = append(stored, name)
	}

	if h.cache != nil {
		h.cache.Clear(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "analysis refreshed",
		"stored_types": stored,
		"refreshed_at": time.Now().UTC().Format(time.RFC3339),
	})
}
