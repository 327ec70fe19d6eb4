package api

import (
	"errors"
	"net/http"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/analytics"
)

// GetKeywords lists owner keywords with pagination and optional filters.
func (h *Handlers) GetKeywords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	f := analytics.SearchFilter{
		MinVolume:   queryInt(r, "min_volume", 0),
		MaxPosition: queryInt(r, "max_position", 0),
		Intent:      r.URL.Query().Get("intent"),
		Limit:       queryInt(r, "limit", 100),
		Offset:      queryInt(r, "offset", 0),
	}
	records, total, err := analytics.Search(snap.Owner, f)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownIntent) {
			respondError(w, http.StatusBadRequest, "unknown intent filter: "+f.Intent)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": records,
		"total":    total,
		"limit":    f.Limit,
		"offset":   f.Offset,
	})
}

// SearchKeywords filters owner keywords by volume, position, intent, and
// location.
func (h *Handlers) SearchKeywords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}

	f := analytics.SearchFilter{
		MinVolume:   queryInt(r, "min_volume", 0),
		MaxPosition: queryInt(r, "max_position", 0),
		Intent:      r.URL.Query().Get("intent"),
		Location:    r.URL.Query().Get("location"),
		Limit:       queryInt(r, "limit", 50),
	}
	records, total, err := analytics.Search(snap.Owner, f)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownIntent) {
			respondError(w, http.StatusBadRequest, "unknown intent filter: "+f.Intent)
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": records,
		"total":    total,
	})
}

// GetLocations lists the top locations by keyword count.
func (h *Handlers) GetLocations(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "keywords:locations", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"locations": analytics.Locations(snap.Owner),
		}, nil
	})
}

// GetTopPerforming lists the owner's strongest keywords by traffic.
func (h *Handlers) GetTopPerforming(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}
	limit := queryInt(r, "limit", 20)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": analytics.HighPerformance(snap.Owner, limit),
	})
}

// GetImprovementOpportunities lists second-page keywords worth pushing.
func (h *Handlers) GetImprovementOpportunities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Snapshot(r.Context())
	if err != nil {
		respondSnapshotError(w, err)
		return
	}
	limit := queryInt(r, "limit", 20)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": analytics.ImprovementOpportunities(snap.Owner, limit),
	})
}
