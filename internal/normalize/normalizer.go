// Package normalize converts raw rank-tracker CSV rows into canonical
// KeywordRecord values. Malformed input degrades to field defaults; a row
// never fails as a whole.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// Source column names as exported by the rank tracker.
const (
	ColKeyword         = "Keyword"
	ColCountryCode     = "Country code"
	ColLocation        = "Location"
	ColEntities        = "Entities"
	ColSERPFeatures    = "SERP features"
	ColVolume          = "Volume"
	ColDifficulty      = "KD"
	ColCPC             = "CPC"
	ColOrganicTraffic  = "Organic traffic"
	ColPaidTraffic     = "Paid traffic"
	ColCurrentPosition = "Current position"
	ColCurrentURL      = "Current URL"
	ColURLInside       = "Current URL inside"
	ColNavigational    = "Navigational"
	ColInformational   = "Informational"
	ColCommercial      = "Commercial"
	ColTransactional   = "Transactional"
	ColBranded         = "Branded"
	ColLocal           = "Local"
)

// Row is one raw input row keyed by source column name. Values may be absent,
// empty, or carry the tracker's not-a-number marker.
type Row map[string]string

// Record builds a KeywordRecord from a raw row. competitorSite is empty for
// the owner site's export.
func Record(row Row, competitorSite string) domain.KeywordRecord {
	return domain.KeywordRecord{
		CompetitorSite:   competitorSite,
		Keyword:          text(row, ColKeyword),
		CountryCode:      text(row, ColCountryCode),
		Location:         text(row, ColLocation),
		Entities:         text(row, ColEntities),
		SERPFeatures:     text(row, ColSERPFeatures),
		Volume:           count(row, ColVolume),
		Difficulty:       number(row, ColDifficulty),
		CPC:              number(row, ColCPC),
		OrganicTraffic:   count(row, ColOrganicTraffic),
		PaidTraffic:      count(row, ColPaidTraffic),
		CurrentPosition:  position(row, ColCurrentPosition),
		CurrentURL:       text(row, ColCurrentURL),
		CurrentURLInside: truthy(row[ColURLInside]),
		Navigational:     truthy(row[ColNavigational]),
		Informational:    truthy(row[ColInformational]),
		Commercial:       truthy(row[ColCommercial]),
		Transactional:    truthy(row[ColTransactional]),
		Branded:          truthy(row[ColBranded]),
		Local:            truthy(row[ColLocal]),
	}
}

// text returns the raw value unchanged, or "" when the column is absent.
func text(row Row, col string) string {
	return row[col]
}

// number parses a float column, substituting 0 for missing/empty/NaN input.
func number(row Row, col string) float64 {
	f, ok := parseFloat(row[col])
	if !ok {
		return 0
	}
	return f
}

// count parses an integer column by truncating the float form. Negative or
// unparseable values fall back to 0.
func count(row Row, col string) int {
	f, ok := parseFloat(row[col])
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

// position parses the ranking position. Missing, unparseable, or non-positive
// input yields the not-ranking sentinel; anything else is floored.
func position(row Row, col string) int {
	f, ok := parseFloat(row[col])
	if !ok || f <= 0 {
		return domain.NotRankingPosition
	}
	p := int(math.Floor(f))
	if p > domain.NotRankingPosition {
		return domain.NotRankingPosition
	}
	return p
}

// truthy treats boolean true, any non-zero numeric, or a case-insensitive
// "true" as set. Everything else, including absence, is false.
func truthy(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	if strings.EqualFold(s, "true") {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return false
}

func parseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
