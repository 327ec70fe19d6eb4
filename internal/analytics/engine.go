// Package analytics implements the keyword aggregation engine: deterministic,
// read-only transformations from a set of KeywordRecords to the derived views
// the dashboard renders. All functions are pure; callers hand in an immutable
// snapshot and may run them concurrently.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// positionRanges are the five fixed, exhaustive ranking buckets.
var positionRanges = []struct {
	name     string
	min, max int
}{
	{"top_3", 1, 3},
	{"top_10", 4, 10},
	{"top_20", 11, 20},
	{"top_50", 21, 50},
	{"not_ranking", 51, domain.NotRankingPosition},
}

// BucketFor returns the position bucket name for a ranking position.
func BucketFor(position int) string {
	for _, r := range positionRanges {
		if position >= r.min && position <= r.max {
			return r.name
		}
	}
	// Positions are normalized into [1,999] upstream; anything else counts as
	// not ranking.
	return "not_ranking"
}

// PositionDistribution buckets records by current position. The five buckets
// partition the set exactly.
func PositionDistribution(records []domain.KeywordRecord) map[string]domain.PositionBucket {
	dist := make(map[string]domain.PositionBucket, len(positionRanges))
	total := len(records)

	for _, r := range positionRanges {
		var b domain.PositionBucket
		for _, rec := range records {
			if rec.CurrentPosition >= r.min && rec.CurrentPosition <= r.max {
				b.Count++
				b.TotalVolume += rec.Volume
				b.TotalTraffic += rec.OrganicTraffic
			}
		}
		b.Percentage = percentage(b.Count, total)
		dist[r.name] = b
	}
	return dist
}

// IntentDistribution aggregates each of the six intent flags independently.
// Flags are not mutually exclusive, so the bucket counts may sum past the
// record count.
func IntentDistribution(records []domain.KeywordRecord) map[string]domain.IntentBucket {
	dist := make(map[string]domain.IntentBucket, len(domain.IntentNames))
	total := len(records)

	for _, name := range domain.IntentNames {
		pred := intentPredicates[name]
		var b domain.IntentBucket
		positionSum := 0
		for _, rec := range records {
			if !pred(rec) {
				continue
			}
			b.Count++
			b.TotalVolume += rec.Volume
			positionSum += rec.CurrentPosition
		}
		b.Percentage = percentage(b.Count, total)
		b.AvgPosition = mean(positionSum, b.Count)
		dist[name] = b
	}
	return dist
}

// SERPFeatureAnalysis reports prevalence stats for the fixed feature catalog.
// Matching is a case-sensitive substring test against the raw serp_features
// text, same as the historical dashboard.
func SERPFeatureAnalysis(records []domain.KeywordRecord) map[string]domain.SERPFeatureStats {
	analysis := make(map[string]domain.SERPFeatureStats, len(domain.SERPFeatureCatalog))
	total := len(records)

	for _, feature := range domain.SERPFeatureCatalog {
		var s domain.SERPFeatureStats
		volumeSum, positionSum := 0, 0
		for _, rec := range records {
			if !strings.Contains(rec.SERPFeatures, feature) {
				continue
			}
			s.Count++
			volumeSum += rec.Volume
			positionSum += rec.CurrentPosition
			s.TotalTraffic += rec.OrganicTraffic
		}
		s.Percentage = percentage(s.Count, total)
		s.AvgVolume = mean(volumeSum, s.Count)
		s.AvgPosition = mean(positionSum, s.Count)
		analysis[feature] = s
	}
	return analysis
}

// Summary computes the dashboard headline block.
func Summary(records []domain.KeywordRecord) domain.SummaryStats {
	var s domain.SummaryStats
	s.TotalKeywords = len(records)
	positionSum := 0
	for _, rec := range records {
		s.TotalVolume += rec.Volume
		s.TotalTraffic += rec.OrganicTraffic
		positionSum += rec.CurrentPosition
		if rec.CurrentPosition <= 3 {
			s.TopPerformingKeyword++
		}
	}
	s.AvgPosition = mean(positionSum, s.TotalKeywords)
	return s
}

// HighPerformance returns the strongest keywords: position 10 or better with
// volume of at least 100, by organic traffic descending. The sort is stable
// so ties keep input order.
func HighPerformance(records []domain.KeywordRecord, limit int) []domain.KeywordRecord {
	if limit <= 0 {
		limit = 20
	}
	out := filter(records, func(r domain.KeywordRecord) bool {
		return r.CurrentPosition <= 10 && r.Volume >= 100
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrganicTraffic > out[j].OrganicTraffic
	})
	return truncate(out, limit)
}

// ImprovementOpportunities returns second-page keywords worth pushing: position
// 11-20 with volume of at least 50, by volume descending.
func ImprovementOpportunities(records []domain.KeywordRecord, limit int) []domain.KeywordRecord {
	if limit <= 0 {
		limit = 20
	}
	out := filter(records, func(r domain.KeywordRecord) bool {
		return r.CurrentPosition >= 11 && r.CurrentPosition <= 20 && r.Volume >= 50
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Volume > out[j].Volume
	})
	return truncate(out, limit)
}

// Performance bundles the ranking views for the performance endpoint.
func Performance(records []domain.KeywordRecord) domain.PerformanceAnalysis {
	s := Summary(records)
	return domain.PerformanceAnalysis{
		TotalKeywords:           s.TotalKeywords,
		TotalVolume:             s.TotalVolume,
		TotalTraffic:            s.TotalTraffic,
		AvgPosition:             s.AvgPosition,
		PositionDistribution:    PositionDistribution(records),
		IntentDistribution:      IntentDistribution(records),
		HighPerformanceKeywords: HighPerformance(records, 20),
		ImprovementOpportunity:  ImprovementOpportunities(records, 20),
	}
}

// ContentGapAnalysis finds owner keywords with unrealized volume: high-volume
// keywords stuck past position 20, and mid-volume keywords hovering on pages
// two and three.
func ContentGapAnalysis(records []domain.KeywordRecord) domain.ContentGaps {
	high := filter(records, func(r domain.KeywordRecord) bool {
		return r.Volume >= 500 && r.CurrentPosition >= 21
	})
	sort.SliceStable(high, func(i, j int) bool { return high[i].Volume > high[j].Volume })

	medium := filter(records, func(r domain.KeywordRecord) bool {
		return r.Volume >= 100 && r.Volume < 500 &&
			r.CurrentPosition >= 11 && r.CurrentPosition <= 30
	})
	sort.SliceStable(medium, func(i, j int) bool { return medium[i].Volume > medium[j].Volume })

	return domain.ContentGaps{
		HighVolumeGaps:            truncate(high, 15),
		MediumVolumeOpportunities: truncate(medium, 15),
	}
}

// Locations lists the top 10 locations by keyword count with their traffic.
func Locations(records []domain.KeywordRecord) []domain.LocationStats {
	counts := map[string]*domain.LocationStats{}
	order := []string{}
	for _, rec := range records {
		if rec.Location == "" {
			continue
		}
		s, ok := counts[rec.Location]
		if !ok {
			s = &domain.LocationStats{Location: rec.Location}
			counts[rec.Location] = s
			order = append(order, rec.Location)
		}
		s.KeywordCount++
		s.TotalTraffic += rec.OrganicTraffic
	}

	out := make([]domain.LocationStats, 0, len(order))
	for _, loc := range order {
		out = append(out, *counts[loc])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].KeywordCount > out[j].KeywordCount })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// SearchFilter narrows a keyword search.
type SearchFilter struct {
	MinVolume   int
	MaxPosition int
	Intent      string
	Location    string
	Limit       int
	Offset      int
}

// Search filters records and orders them by organic traffic descending then
// current position ascending, the ordering the dashboard tables expect.
// An unknown intent name returns ErrUnknownIntent.
func Search(records []domain.KeywordRecord, f SearchFilter) ([]domain.KeywordRecord, int, error) {
	pred := func(domain.KeywordRecord) bool { return true }
	if f.Intent != "" {
		p, err := IntentPredicate(f.Intent)
		if err != nil {
			return nil, 0, err
		}
		pred = p
	}

	out := filter(records, func(r domain.KeywordRecord) bool {
		if f.MinVolume > 0 && r.Volume < f.MinVolume {
			return false
		}
		if f.MaxPosition > 0 && r.CurrentPosition > f.MaxPosition {
			return false
		}
		if f.Location != "" && r.Location != f.Location {
			return false
		}
		return pred(r)
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrganicTraffic != out[j].OrganicTraffic {
			return out[i].OrganicTraffic > out[j].OrganicTraffic
		}
		return out[i].CurrentPosition < out[j].CurrentPosition
	})

	total := len(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 {
		out = truncate(out, f.Limit)
	}
	return out, total, nil
}

// CompetitorOverview summarizes one competitor's record set. Average position
// ignores not-ranking sentinels, matching the historical numbers.
func CompetitorOverview(site, displayName string, records []domain.KeywordRecord) domain.CompetitorSummary {
	s := domain.CompetitorSummary{SiteName: site, DisplayName: displayName}
	positionSum, ranking := 0, 0
	for _, rec := range records {
		s.TotalKeywords++
		s.TotalVolume += rec.Volume
		s.TotalTraffic += rec.OrganicTraffic
		if rec.IsRanking() {
			positionSum += rec.CurrentPosition
			ranking++
		}
	}
	s.AvgPosition = mean(positionSum, ranking)
	return s
}

// helpers

func filter(records []domain.KeywordRecord, keep func(domain.KeywordRecord) bool) []domain.KeywordRecord {
	out := make([]domain.KeywordRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func truncate(records []domain.KeywordRecord, limit int) []domain.KeywordRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// percentage is count/total*100 with the empty-set degeneracy pinned to 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return finite(float64(count) / float64(total) * 100)
}

// mean is sum/count with the empty-set degeneracy pinned to 0.
func mean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return finite(float64(sum) / float64(count))
}

// finite clamps NaN/Inf to 0 so nothing non-finite crosses the JSON boundary.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
