// Package ingest streams rank-tracker CSV exports into the keyword store.
// Files are processed row by row and never loaded into memory whole.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/normalize"
)

var (
	ErrNoHeaders            = errors.New("no headers detected in CSV file")
	ErrEmptyFile            = errors.New("file is empty")
	ErrMissingKeywordColumn = errors.New("keyword column is required")
)

const progressLogFreq = 10000

// Replacer swaps one partition of the keyword store in a single step.
type Replacer interface {
	ReplaceOwner(ctx context.Context, records []domain.KeywordRecord) error
	ReplaceCompetitor(ctx context.Context, site string, records []domain.KeywordRecord) error
	RecordIngestionRun(ctx context.Context, run domain.IngestionRun) error
}

// headerAliases maps canonical column names to the spellings seen across
// exports from different tracker versions.
var headerAliases = map[string][]string{
	normalize.ColKeyword:         {"keyword", "query", "search term"},
	normalize.ColCountryCode:     {"country code", "country", "cc"},
	normalize.ColLocation:        {"location", "market"},
	normalize.ColEntities:        {"entities"},
	normalize.ColSERPFeatures:    {"serp features", "serp_features", "features"},
	normalize.ColVolume:          {"volume", "search volume", "monthly volume"},
	normalize.ColDifficulty:      {"kd", "keyword difficulty", "difficulty"},
	normalize.ColCPC:             {"cpc", "cost per click"},
	normalize.ColOrganicTraffic:  {"organic traffic", "traffic", "organic_traffic"},
	normalize.ColPaidTraffic:     {"paid traffic", "paid_traffic"},
	normalize.ColCurrentPosition: {"current position", "position", "rank", "current_position"},
	normalize.ColCurrentURL:      {"current url", "url", "ranking url"},
	normalize.ColURLInside:       {"current url inside", "url inside"},
	normalize.ColNavigational:    {"navigational"},
	normalize.ColInformational:   {"informational"},
	normalize.ColCommercial:      {"commercial"},
	normalize.ColTransactional:   {"transactional"},
	normalize.ColBranded:         {"branded"},
	normalize.ColLocal:           {"local"},
}

// Importer reads CSV exports and replaces store partitions with their content.
type Importer struct {
	repo Replacer
}

func NewImporter(repo Replacer) *Importer {
	return &Importer{repo: repo}
}

// ImportFile ingests one export file. An empty site replaces the owner
// partition; otherwise the named competitor partition is replaced.
func (im *Importer) ImportFile(ctx context.Context, path, site string) (domain.IngestionRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	run, err := im.Import(ctx, f, filepath.Base(path), site)
	if err != nil {
		return domain.IngestionRun{}, err
	}
	return run, nil
}

// Import ingests one export stream. The whole partition is replaced in a
// single transaction, so a half-read file never leaves partial data behind.
func (im *Importer) Import(ctx context.Context, r io.Reader, sourceName, site string) (domain.IngestionRun, error) {
	started := time.Now()

	records, err := im.readAll(r, site)
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("read %s: %w", sourceName, err)
	}

	if site == "" {
		err = im.repo.ReplaceOwner(ctx, records)
	} else {
		err = im.repo.ReplaceCompetitor(ctx, site, records)
	}
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("replace partition: %w", err)
	}

	run := domain.IngestionRun{
		ID:             uuid.New().String(),
		CompetitorSite: site,
		SourceFile:     sourceName,
		RowCount:       len(records),
		StartedAt:      started,
		CompletedAt:    time.Now(),
	}
	if err := im.repo.RecordIngestionRun(ctx, run); err != nil {
		return domain.IngestionRun{}, err
	}
	log.Printf("ingested %s: %d rows in %s", sourceName, run.RowCount, run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	return run, nil
}

func (im *Importer) readAll(r io.Reader, site string) ([]domain.KeywordRecord, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	mapping, err := MapHeaders(header)
	if err != nil {
		return nil, err
	}

	var records []domain.KeywordRecord
	for {
		raw, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+2, err)
		}
		row := normalize.Row{}
		for col, idx := range mapping {
			if idx < len(raw) {
				row[col] = raw[idx]
			}
		}
		records = append(records, normalize.Record(row, site))
		if len(records)%progressLogFreq == 0 {
			log.Printf("  ... %d rows read", len(records))
		}
	}
	return records, nil
}

// MapHeaders resolves each canonical column to its index in the CSV header.
// Unrecognized header columns are ignored; a record-level default fills any
// canonical column the file lacks. The keyword column itself must be present.
func MapHeaders(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, ErrNoHeaders
	}

	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	mapping := make(map[string]int)
	for canonical, aliases := range headerAliases {
		for i, h := range normalized {
			if matchesAlias(h, aliases) {
				mapping[canonical] = i
				break
			}
		}
	}

	if _, ok := mapping[normalize.ColKeyword]; !ok {
		return nil, ErrMissingKeywordColumn
	}
	return mapping, nil
}

func matchesAlias(header string, aliases []string) bool {
	for _, a := range aliases {
		if header == a {
			return true
		}
	}
	return false
}
