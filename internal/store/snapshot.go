// Package store holds an immutable in-memory snapshot of the current keyword
// record sets. Aggregations read a consistent snapshot while ingestion swaps
// in a replacement atomically, so a half-finished load is never visible.
package store

import (
	"sort"
	"sync/atomic"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// Snapshot is one consistent view of all loaded records. Callers must treat
// the slices as read-only.
type Snapshot struct {
	Owner       []domain.KeywordRecord
	Competitors map[string][]domain.KeywordRecord
}

// Sites returns the competitor site names in sorted order.
func (s *Snapshot) Sites() []string {
	sites := make([]string, 0, len(s.Competitors))
	for site := range s.Competitors {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// Empty reports whether the snapshot holds no records at all.
func (s *Snapshot) Empty() bool {
	if len(s.Owner) > 0 {
		return false
	}
	for _, recs := range s.Competitors {
		if len(recs) > 0 {
			return false
		}
	}
	return true
}

// Store keeps the current snapshot behind an atomic pointer.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// New creates a Store holding an empty snapshot.
func New() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Competitors: map[string][]domain.KeywordRecord{}})
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// ReplaceOwner swaps in a snapshot with the owner partition replaced.
func (s *Store) ReplaceOwner(records []domain.KeywordRecord) {
	for {
		old := s.current.Load()
		next := clone(old)
		next.Owner = records
		if s.current.CompareAndSwap(old, next) {
			return
		}
	}
}

// ReplaceCompetitor swaps in a snapshot with one competitor partition replaced.
func (s *Store) ReplaceCompetitor(site string, records []domain.KeywordRecord) {
	for {
		old := s.current.Load()
		next := clone(old)
		next.Competitors[site] = records
		if s.current.CompareAndSwap(old, next) {
			return
		}
	}
}

// Replace swaps in a whole new snapshot.
func (s *Store) Replace(snap *Snapshot) {
	if snap.Competitors == nil {
		snap.Competitors = map[string][]domain.KeywordRecord{}
	}
	s.current.Store(snap)
}

func clone(old *Snapshot) *Snapshot {
	next := &Snapshot{
		Owner:       old.Owner,
		Competitors: make(map[string][]domain.KeywordRecord, len(old.Competitors)),
	}
	for site, recs := range old.Competitors {
		next.Competitors[site] = recs
	}
	return next
}
