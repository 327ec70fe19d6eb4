package analytics

import (
	"sort"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// DefaultMinOpportunityVolume is the volume floor for gap analysis when the
// caller does not supply one.
const DefaultMinOpportunityVolume = 100

// OwnerIndex maps keyword text to the owner's record for that keyword. When
// the owner holds duplicate keywords (different locations), the record with
// the best position wins the join.
func OwnerIndex(owner []domain.KeywordRecord) map[string]domain.KeywordRecord {
	idx := make(map[string]domain.KeywordRecord, len(owner))
	for _, rec := range owner {
		if prev, ok := idx[rec.Keyword]; !ok || rec.CurrentPosition < prev.CurrentPosition {
			idx[rec.Keyword] = rec
		}
	}
	return idx
}

// resolveOwnerPosition returns the owner's best position for a keyword, or the
// not-ranking sentinel when the owner has no record for it.
func resolveOwnerPosition(idx map[string]domain.KeywordRecord, keyword string) int {
	if rec, ok := idx[keyword]; ok {
		return rec.CurrentPosition
	}
	return domain.NotRankingPosition
}

// FindOpportunities joins competitor records against the owner set to surface
// keywords where a competitor ranks in the top 20 with meaningful volume while
// the owner sits past position 20 or does not rank at all.
func FindOpportunities(owner []domain.KeywordRecord, competitors map[string][]domain.KeywordRecord, minVolume, limit int) []domain.Opportunity {
	if minVolume <= 0 {
		minVolume = DefaultMinOpportunityVolume
	}

	idx := OwnerIndex(owner)

	// Map iteration order is random; walk sites sorted so the stable
	// tie-break below is reproducible run to run.
	sites := make([]string, 0, len(competitors))
	for site := range competitors {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	var out []domain.Opportunity
	for _, site := range sites {
		for _, rec := range competitors[site] {
			if rec.CurrentPosition > 20 || rec.Volume < minVolume {
				continue
			}
			ownerPos := resolveOwnerPosition(idx, rec.Keyword)
			if ownerPos <= 20 {
				continue
			}
			out = append(out, domain.Opportunity{
				Keyword:            rec.Keyword,
				CompetitorSite:     site,
				Volume:             rec.Volume,
				CompetitorPosition: rec.CurrentPosition,
				CompetitorTraffic:  rec.OrganicTraffic,
				CompetitorURL:      rec.CurrentURL,
				Difficulty:         rec.Difficulty,
				OwnerPosition:      ownerPos,
				OpportunityScore:   opportunityScore(rec.Volume, rec.CurrentPosition),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].CompetitorTraffic > out[j].CompetitorTraffic
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// opportunityScore weights volume by inverse competitor position: high volume
// at a strong competitor position means a bigger missed opportunity.
func opportunityScore(volume, position int) float64 {
	if position < 1 {
		position = 1
	}
	return finite(float64(volume) / float64(position))
}

// Compare builds the per-competitor comparison table: the competitor's top
// keywords by traffic then volume, with the owner's position resolved for
// each and a directional opportunity score.
func Compare(owner []domain.KeywordRecord, competitor []domain.KeywordRecord, limit int) []domain.ComparisonRow {
	if limit <= 0 {
		limit = 100
	}

	idx := OwnerIndex(owner)

	top := make([]domain.KeywordRecord, len(competitor))
	copy(top, competitor)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].OrganicTraffic != top[j].OrganicTraffic {
			return top[i].OrganicTraffic > top[j].OrganicTraffic
		}
		return top[i].Volume > top[j].Volume
	})
	top = truncate(top, limit)

	out := make([]domain.ComparisonRow, 0, len(top))
	for _, rec := range top {
		ownerPos := domain.NotRankingPosition
		ownerTraffic := 0
		ownerURL := ""
		if o, ok := idx[rec.Keyword]; ok {
			ownerPos = o.CurrentPosition
			ownerTraffic = o.OrganicTraffic
			ownerURL = o.CurrentURL
		}

		status := domain.StatusSame
		switch {
		case ownerPos == domain.NotRankingPosition:
			status = domain.StatusNotRanking
		case ownerPos < rec.CurrentPosition:
			status = domain.StatusBetter
		case ownerPos > rec.CurrentPosition:
			status = domain.StatusWorse
		}

		// Positive score flags content investment: the competitor holds a
		// first-page spot the owner is nowhere near. Negative flags keywords
		// the owner already wins; everything in between scores 0.
		score := 0.0
		switch {
		case rec.CurrentPosition <= 10 && ownerPos > 20:
			score = opportunityScore(rec.Volume, rec.CurrentPosition)
		case ownerPos < rec.CurrentPosition:
			score = -opportunityScore(rec.Volume, ownerPos)
		}

		out = append(out, domain.ComparisonRow{
			Keyword:            rec.Keyword,
			Volume:             rec.Volume,
			CompetitorPosition: rec.CurrentPosition,
			CompetitorTraffic:  rec.OrganicTraffic,
			CompetitorURL:      rec.CurrentURL,
			Difficulty:         rec.Difficulty,
			CPC:                rec.CPC,
			SERPFeatures:       rec.SERPFeatures,
			Informational:      rec.Informational,
			Commercial:         rec.Commercial,
			Transactional:      rec.Transactional,
			Navigational:       rec.Navigational,
			Branded:            rec.Branded,
			Local:              rec.Local,
			OwnerPosition:      ownerPos,
			OwnerTraffic:       ownerTraffic,
			OwnerURL:           ownerURL,
			OpportunityScore:   score,
			Status:             status,
		})
	}
	return out
}
