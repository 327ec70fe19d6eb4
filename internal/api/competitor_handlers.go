package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/analytics"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// GetCompetitorSummary returns per-site headline numbers for every tracked
// competitor plus an overall block.
func (h *Handlers) GetCompetitorSummary(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "competitors:summary", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}

		summaries := make([]domain.CompetitorSummary, 0, len(snap.Competitors))
		totalKeywords, totalTraffic := 0, 0
		for _, site := range snap.Sites() {
			records := snap.Competitors[site]
			s := analytics.CompetitorOverview(site, h.config.Competitors.DisplayName(site), records)
			summaries = append(summaries, s)
			totalKeywords += s.TotalKeywords
			totalTraffic += s.TotalTraffic
		}

		return map[string]interface{}{
			"competitors": summaries,
			"summary": map[string]interface{}{
				"total_competitors": len(summaries),
				"total_keywords":    totalKeywords,
				"total_traffic":     totalTraffic,
			},
		}, nil
	})
}

// GetCompetitorOpportunities returns keywords competitors rank well for while
// the owner site does not.
func (h *Handlers) GetCompetitorOpportunities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	minVolume := queryInt(r, "min_volume", analytics.DefaultMinOpportunityVolume)
	limit := queryInt(r, "limit", 100)
	opportunities := analytics.FindOpportunities(snap.Owner, snap.Competitors, minVolume, limit)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"opportunities": opportunities,
		"total":         len(opportunities),
	})
}

// GetCompetitorKeywords lists one competitor's keywords with filters.
func (h *Handlers) GetCompetitorKeywords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	site := chi.URLParam(r, "site")
	records, ok := snap.Competitors[site]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown competitor site: "+site)
		return
	}

	f := analytics.SearchFilter{
		MinVolume:   queryInt(r, "min_volume", 0),
		MaxPosition: queryInt(r, "max_position", 0),
		Limit:       queryInt(r, "limit", 100),
	}
	filtered, total, err := analytics.Search(records, f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"site_name":    site,
		"display_name": h.config.Competitors.DisplayName(site),
		"keywords":     filtered,
		"total":        total,
	})
}

// GetCompetitorComparison returns the keyword-by-keyword comparison table for
// one competitor.
func (h *Handlers) GetCompetitorComparison(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	site := chi.URLParam(r, "site")
	records, ok := snap.Competitors[site]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown competitor site: "+site)
		return
	}

	limit := queryInt(r, "limit", 100)
	rows := analytics.Compare(snap.Owner, records, limit)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"site_name":    site,
		"display_name": h.config.Competitors.DisplayName(site),
		"comparison":   rows,
		"total":        len(rows),
	})
}
