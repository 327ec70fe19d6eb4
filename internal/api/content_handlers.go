package api

import "net/http"

// GetContentRecommendations returns new-content, improvement, and topic
// cluster proposals for the owner site.
func (h *Handlers) GetContentRecommendations(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "content:recommendations", func() (interface{}, error) {
		snap, err := h.provider.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return h.generator.Recommendations(snap.Owner, snap.Competitors), nil
	})
}
