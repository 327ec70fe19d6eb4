package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/api"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/cache"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/config"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/content"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/ingest"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/metrics"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/provider"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/repository/postgres"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/store"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// partitionReader adapts the keyword repository to the metrics collector.
type partitionReader struct {
	repo *postgres.KeywordRepo
}

func (p partitionReader) PartitionCounts(ctx context.Context) ([]metrics.PartitionCount, error) {
	counts, err := p.repo.PartitionCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]metrics.PartitionCount, len(counts))
	for i, c := range counts {
		out[i] = metrics.PartitionCount{Site: c.Site, Count: c.Count}
	}
	return out, nil
}

func (p partitionReader) LastIngestionTime(ctx context.Context) (time.Time, error) {
	run, err := p.repo.LastIngestion(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if run == nil {
		return time.Time{}, nil
	}
	return run.CompletedAt, nil
}

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required (env or config.yaml database.url)")
	}

	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", cfg.Server.Port)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	repo := postgres.NewKeywordRepo(db)
	if err := repo.Ping(context.Background()); err != nil {
		log.Printf("Warning: database ping failed: %v — serving from fallback snapshot until it recovers", err)
	} else {
		log.Println("Connected to database")
	}

	dataProvider := provider.New(repo, store.New())
	generator := content.NewGenerator(content.DefaultConfig())
	handlers := api.NewHandlers(dataProvider, repo, generator, cfg)
	handlers.SetImporter(ingest.NewImporter(repo))

	// Response cache: memory tier always, Redis tier when configured.
	memTier := cache.NewMemoryCache(cfg.Cache.TTL(), cfg.Cache.CleanupInterval())
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Printf("Warning: Redis connection failed (%s): %v — using memory cache only", cfg.Redis.Addr, err)
			handlers.SetCache(memTier, cfg.Cache.TTL())
		} else {
			log.Printf("Redis connected: %s (shared response cache enabled)", cfg.Redis.Addr)
			handlers.SetCache(cache.NewLayeredCache(memTier, cache.NewRedisCache(client, "twseo")), cfg.Cache.TTL())
		}
	} else {
		handlers.SetCache(memTier, cfg.Cache.TTL())
	}

	metrics.Init(partitionReader{repo: repo})
	log.Println("Prometheus store collector registered")

	router := api.SetupRoutes(handlers, cfg.CORS.AllowedOrigins)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Println("All services initialized — server is ready")

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
