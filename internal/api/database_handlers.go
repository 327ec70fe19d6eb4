package api

import (
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// GetDatabaseStatus reports connectivity, per-partition record counts, and
// the most recent ingestion run.
func (h *Handlers) GetDatabaseStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"connected": h.store.Ping(r.Context()) == nil,
	}

	counts, err := h.store.PartitionCounts(r.Context())
	if err == nil {
		partitions := make([]map[string]interface{}, 0, len(counts))
		total := 0
		for _, pc := range counts {
			site := pc.Site
			if site == "" {
				site = "owner"
			}
			partitions = append(partitions, map[string]interface{}{
				"site":  site,
				"count": pc.Count,
			})
			total += pc.Count
		}
		status["partitions"] = partitions
		status["total_records"] = total
	}

	if run, err := h.store.LastIngestion(r.Context()); err == nil && run != nil {
		status["last_ingestion"] = run
	}

	respondJSON(w, http.StatusOK, status)
}

// RunMigration ingests the configured CSV export files into the store,
// owner first, then each competitor.
func (h *Handlers) RunMigration(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		respondError(w, http.StatusServiceUnavailable, "ingestion is not configured")
		return
	}

	ing := h.config.Ingestion
	type fileTarget struct {
		site string
		path string
	}
	var targets []fileTarget
	if ing.OwnerFile != "" {
		targets = append(targets, fileTarget{site: "", path: filepath.Join(ing.DataDir, ing.OwnerFile)})
	}
	sites := make([]string, 0, len(ing.CompetitorFiles))
	for site := range ing.CompetitorFiles {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	for _, site := range sites {
		targets = append(targets, fileTarget{site: site, path: filepath.Join(ing.DataDir, ing.CompetitorFiles[site])})
	}

	if len(targets) == 0 {
		respondError(w, http.StatusBadRequest, "no import files configured")
		return
	}

	var runs []domain.IngestionRun
	for _, t := range targets {
		run, err := h.importer.ImportFile(r.Context(), t.path, t.site)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "import "+t.path+": "+err.Error())
			return
		}
		runs = append(runs, run)
	}

	if h.cache != nil {
		h.cache.Clear(r.Context())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "migration complete",
		"runs":         runs,
		"completed_at": time.Now().UTC().Format(time.RFC3339),
	})
}
