package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - explicit origins so the dashboard frontend can call us
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check and metrics
	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/analysis", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/performance", h.GetPerformance)
			r.Get("/serp-features", h.GetSERPFeatures)
			r.Get("/content-gaps", h.GetContentGaps)
			r.Post("/refresh", h.RefreshAnalysis)
		})

		r.Route("/keywords", func(r chi.Router) {
			r.Get("/", h.GetKeywords)
			r.Get("/search", h.SearchKeywords)
			r.Get("/locations", h.GetLocations)
			r.Get("/top-performing", h.GetTopPerforming)
			r.Get("/improvement-opportunities", h.GetImprovementOpportunities)
		})

		r.Route("/competitors", func(r chi.Router) {
			r.Get("/summary", h.GetCompetitorSummary)
			r.Get("/opportunities", h.GetCompetitorOpportunities)
			r.Get("/{site}/keywords", h.GetCompetitorKeywords)
			r.Get("/{site}/comparison", h.GetCompetitorComparison)
		})

		r.Get("/content/recommendations", h.GetContentRecommendations)

		r.Route("/database", func(r chi.Router) {
			r.Get("/status", h.GetDatabaseStatus)
			r.Post("/migrate", h.RunMigration)
		})
	})

	return r
}
