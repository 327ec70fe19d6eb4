// Package provider gives the API one data source backed by two tiers: the
// Postgres repository and the last-good in-memory snapshot. Reads fall back
// to the snapshot when the database is unavailable, so an analysis that was
// served once keeps being served through a database outage.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/store"
)

// ErrNoData means neither tier holds any keyword data. Callers should treat
// it as "nothing ingested yet", not as a failure.
var ErrNoData = errors.New("no keyword data available")

// Repository is the database tier.
type Repository interface {
	ListOwner(ctx context.Context) ([]domain.KeywordRecord, error)
	ListAllCompetitors(ctx context.Context) (map[string][]domain.KeywordRecord, error)
	Ping(ctx context.Context) error
}

// Provider serves keyword snapshots, refreshing the fallback store on every
// successful database read.
type Provider struct {
	repo     Repository
	fallback *store.Store
}

func New(repo Repository, fallback *store.Store) *Provider {
	if fallback == nil {
		fallback = store.New()
	}
	return &Provider{repo: repo, fallback: fallback}
}

// Snapshot returns the current keyword dataset. The database is the source of
// truth; on database failure the last-good snapshot is served instead.
func (p *Provider) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	snap, err := p.load(ctx)
	if err == nil {
		p.fallback.Replace(snap)
		return snap, nil
	}
	if errors.Is(err, ErrNoData) {
		// The database answered and is empty. Stale fallback data would
		// misrepresent that, so report empty.
		return nil, ErrNoData
	}

	cached := p.fallback.Current()
	if cached.Empty() {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	log.Printf("database read failed, serving cached snapshot: %v", err)
	return cached, nil
}

func (p *Provider) load(ctx context.Context) (*store.Snapshot, error) {
	owner, err := p.repo.ListOwner(ctx)
	if err != nil {
		return nil, err
	}
	competitors, err := p.repo.ListAllCompetitors(ctx)
	if err != nil {
		return nil, err
	}

	snap := &store.Snapshot{Owner: owner, Competitors: competitors}
	if snap.Empty() {
		return nil, ErrNoData
	}
	return snap, nil
}

// Healthy reports whether the database tier is reachable.
func (p *Provider) Healthy(ctx context.Context) bool {
	return p.repo.Ping(ctx) == nil
}
