// Package postgres implements the relational keyword store. Records live in a
// single keywords table partitioned logically by competitor_site (NULL for the
// owner site); each ingestion run replaces one partition inside a transaction
// so readers never observe a mixed old/new set.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// KeywordRepo implements the keyword record store against PostgreSQL.
type KeywordRepo struct{ db *sql.DB }

// NewKeywordRepo creates a Postgres-backed keyword repository.
func NewKeywordRepo(db *sql.DB) *KeywordRepo { return &KeywordRepo{db: db} }

const keywordColumns = `
	keyword, country_code, COALESCE(location,''), COALESCE(entities,''),
	COALESCE(serp_features,''), volume, keyword_difficulty, cpc,
	organic_traffic, paid_traffic, current_position, COALESCE(current_url,''),
	current_url_inside, navigational, informational, commercial,
	transactional, branded, local`

const insertKeyword = `
	INSERT INTO keywords (
		competitor_site, keyword, country_code, location, entities,
		serp_features, volume, keyword_difficulty, cpc, organic_traffic,
		paid_traffic, current_position, current_url, current_url_inside,
		navigational, informational, commercial, transactional, branded, local
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
	)`

// ReplaceOwner atomically replaces the owner partition.
func (r *KeywordRepo) ReplaceOwner(ctx context.Context, records []domain.KeywordRecord) error {
	return r.replace(ctx, "", records)
}

// ReplaceCompetitor atomically replaces one competitor partition.
func (r *KeywordRepo) ReplaceCompetitor(ctx context.Context, site string, records []domain.KeywordRecord) error {
	if site == "" {
		return fmt.Errorf("replace competitor: site is required")
	}
	return r.replace(ctx, site, records)
}

func (r *KeywordRepo) replace(ctx context.Context, site string, records []domain.KeywordRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if site == "" {
		_, err = tx.ExecContext(ctx, `DELETE FROM keywords WHERE competitor_site IS NULL`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM keywords WHERE competitor_site = $1`, site)
	}
	if err != nil {
		return fmt.Errorf("clear partition: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertKeyword)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			nullableSite(site), rec.Keyword, rec.CountryCode, rec.Location, rec.Entities,
			rec.SERPFeatures, rec.Volume, rec.Difficulty, rec.CPC, rec.OrganicTraffic,
			rec.PaidTraffic, rec.CurrentPosition, rec.CurrentURL, rec.CurrentURLInside,
			rec.Navigational, rec.Informational, rec.Commercial, rec.Transactional,
			rec.Branded, rec.Local,
		); err != nil {
			return fmt.Errorf("insert keyword %q: %w", rec.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// ListOwner returns every owner record in insertion order.
func (r *KeywordRepo) ListOwner(ctx context.Context) ([]domain.KeywordRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(competitor_site,''),`+keywordColumns+`
		FROM keywords
		WHERE competitor_site IS NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list owner keywords: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListCompetitor returns every record for one competitor site in insertion order.
func (r *KeywordRepo) ListCompetitor(ctx context.Context, site string) ([]domain.KeywordRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(competitor_site,''),`+keywordColumns+`
		FROM keywords
		WHERE competitor_site = $1
		ORDER BY id`, site)
	if err != nil {
		return nil, fmt.Errorf("list competitor keywords: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CompetitorSites lists the distinct competitor partitions currently loaded.
func (r *KeywordRepo) CompetitorSites(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT competitor_site
		FROM keywords
		WHERE competitor_site IS NOT NULL
		ORDER BY competitor_site`)
	if err != nil {
		return nil, fmt.Errorf("list competitor sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("scan competitor site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// ListAllCompetitors returns every competitor partition keyed by site.
func (r *KeywordRepo) ListAllCompetitors(ctx context.Context) (map[string][]domain.KeywordRecord, error) {
	sites, err := r.CompetitorSites(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]domain.KeywordRecord, len(sites))
	for _, site := range sites {
		recs, err := r.ListCompetitor(ctx, site)
		if err != nil {
			return nil, err
		}
		out[site] = recs
	}
	return out, nil
}

// PartitionCount is one partition's record count. Site is empty for the owner.
type PartitionCount struct {
	Site  string
	Count int
}

// PartitionCounts returns the record count per partition, owner first.
func (r *KeywordRepo) PartitionCounts(ctx context.Context) ([]PartitionCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(competitor_site,''), COUNT(*)
		FROM keywords
		GROUP BY competitor_site
		ORDER BY COALESCE(competitor_site,'')`)
	if err != nil {
		return nil, fmt.Errorf("partition counts: %w", err)
	}
	defer rows.Close()

	var out []PartitionCount
	for rows.Next() {
		var pc PartitionCount
		if err := rows.Scan(&pc.Site, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan partition count: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// SaveAnalysisResult stores one computed analysis payload by type.
func (r *KeywordRepo) SaveAnalysisResult(ctx context.Context, analysisType string, resultData, summaryStats []byte) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO analysis_results (analysis_type, result_data, summary_stats, analysis_date)
		VALUES ($1, $2, $3, NOW())
		RETURNING id`,
		analysisType, resultData, nullableBytes(summaryStats),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save analysis result: %w", err)
	}
	return id, nil
}

// RecordIngestionRun stores the audit row for one partition replacement.
func (r *KeywordRepo) RecordIngestionRun(ctx context.Context, run domain.IngestionRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, competitor_site, source_file, row_count, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, nullableSite(run.CompetitorSite), run.SourceFile, run.RowCount,
		run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("record ingestion run: %w", err)
	}
	return nil
}

// LastIngestion returns the most recent ingestion run, if any.
func (r *KeywordRepo) LastIngestion(ctx context.Context) (*domain.IngestionRun, error) {
	run := &domain.IngestionRun{}
	var site sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, competitor_site, source_file, row_count, started_at, completed_at
		FROM ingestion_runs
		ORDER BY completed_at DESC
		LIMIT 1`).Scan(&run.ID, &site, &run.SourceFile, &run.RowCount, &run.StartedAt, &run.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last ingestion: %w", err)
	}
	run.CompetitorSite = site.String
	return run, nil
}

// Ping verifies database connectivity for the status endpoint.
func (r *KeywordRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]domain.KeywordRecord, error) {
	var out []domain.KeywordRecord
	for rows.Next() {
		var rec domain.KeywordRecord
		if err := rows.Scan(
			&rec.ID, &rec.CompetitorSite,
			&rec.Keyword, &rec.CountryCode, &rec.Location, &rec.Entities,
			&rec.SERPFeatures, &rec.Volume, &rec.Difficulty, &rec.CPC,
			&rec.OrganicTraffic, &rec.PaidTraffic, &rec.CurrentPosition, &rec.CurrentURL,
			&rec.CurrentURLInside, &rec.Navigational, &rec.Informational, &rec.Commercial,
			&rec.Transactional, &rec.Branded, &rec.Local,
		); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableSite(site string) interface{} {
	if site == "" {
		return nil
	}
	return site
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
