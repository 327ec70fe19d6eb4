// Command ingest loads rank-tracker CSV exports into the keyword store.
//
//	ingest -file tokyoweekender.csv
//	ingest -file tokyocheapo.csv -site tokyocheapo.com
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/config"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/ingest"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/repository/postgres"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		file       = flag.String("file", "", "CSV export file to ingest")
		site       = flag.String("site", "", "competitor site the file belongs to (empty for the owner site)")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required (env or config.yaml database.url)")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewKeywordRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := repo.Ping(ctx); err != nil {
		log.Fatalf("database ping: %v", err)
	}

	importer := ingest.NewImporter(repo)
	run, err := importer.ImportFile(ctx, *file, *site)
	if err != nil {
		log.Fatalf("ingest %s: %v", *file, err)
	}

	target := "owner"
	if *site != "" {
		target = *site
	}
	log.Printf("Done: %d rows into %s partition (run %s)", run.RowCount, target, run.ID)
}
