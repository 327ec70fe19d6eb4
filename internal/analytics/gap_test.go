package analytics

import (
	"math"
	"testing"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

func TestFindOpportunities_OwnerAbsent(t *testing.T) {
	competitors := map[string][]domain.KeywordRecord{
		"tokyocheapo.com": {
			{Keyword: "tokyo food tour", Volume: 1500, CurrentPosition: 5, OrganicTraffic: 400},
		},
	}

	got := FindOpportunities(nil, competitors, 100, 0)
	if len(got) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(got))
	}
	o := got[0]
	if o.OwnerPosition != domain.NotRankingPosition {
		t.Errorf("owner position = %d, want 999", o.OwnerPosition)
	}
	if math.Abs(o.OpportunityScore-300) > 1e-9 {
		t.Errorf("opportunity_score = %f, want 300", o.OpportunityScore)
	}
	if o.CompetitorSite != "tokyocheapo.com" {
		t.Errorf("competitor_site = %q", o.CompetitorSite)
	}
}

func TestFindOpportunities_NeverReportsCompetitiveOwner(t *testing.T) {
	owner := []domain.KeywordRecord{
		{Keyword: "tokyo events", CurrentPosition: 8},
		{Keyword: "tokyo bars", CurrentPosition: 20},
		{Keyword: "tokyo hotels", CurrentPosition: 45},
	}
	competitors := map[string][]domain.KeywordRecord{
		"www.timeout.jp": {
			{Keyword: "tokyo events", Volume: 2000, CurrentPosition: 3},
			{Keyword: "tokyo bars", Volume: 1000, CurrentPosition: 6},
			{Keyword: "tokyo hotels", Volume: 800, CurrentPosition: 4},
		},
	}

	got := FindOpportunities(owner, competitors, 100, 0)
	for _, o := range got {
		if o.OwnerPosition <= 20 {
			t.Errorf("opportunity %q reported with owner position %d", o.Keyword, o.OwnerPosition)
		}
	}
	if len(got) != 1 || got[0].Keyword != "tokyo hotels" {
		t.Errorf("got %+v, want only tokyo hotels", got)
	}
}

func TestFindOpportunities_DuplicateOwnerKeywordUsesBestPosition(t *testing.T) {
	owner := []domain.KeywordRecord{
		{Keyword: "tokyo nightlife", CurrentPosition: 35, Location: "United States"},
		{Keyword: "tokyo nightlife", CurrentPosition: 12, Location: "Japan"},
	}
	competitors := map[string][]domain.KeywordRecord{
		"tokyocheapo.com": {
			{Keyword: "tokyo nightlife", Volume: 900, CurrentPosition: 2},
		},
	}

	// Best owner position is 12, inside the top 20, so no opportunity.
	if got := FindOpportunities(owner, competitors, 100, 0); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestFindOpportunities_Ordering(t *testing.T) {
	competitors := map[string][]domain.KeywordRecord{
		"a.example": {
			{Keyword: "k1", Volume: 500, CurrentPosition: 10, OrganicTraffic: 50},
			{Keyword: "k2", Volume: 900, CurrentPosition: 15, OrganicTraffic: 10},
		},
		"b.example": {
			{Keyword: "k3", Volume: 500, CurrentPosition: 4, OrganicTraffic: 80},
		},
	}

	got := FindOpportunities(nil, competitors, 100, 0)
	want := []string{"k2", "k3", "k1"} // volume desc, then traffic desc
	if len(got) != len(want) {
		t.Fatalf("got %d, want %d", len(got), len(want))
	}
	for i, k := range want {
		if got[i].Keyword != k {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Keyword, k)
		}
	}
}

func TestFindOpportunities_MinVolumeDefault(t *testing.T) {
	competitors := map[string][]domain.KeywordRecord{
		"a.example": {
			{Keyword: "thin", Volume: 99, CurrentPosition: 1},
			{Keyword: "ok", Volume: 100, CurrentPosition: 1},
		},
	}

	got := FindOpportunities(nil, competitors, 0, 0)
	if len(got) != 1 || got[0].Keyword != "ok" {
		t.Errorf("default min volume not applied: %+v", got)
	}
}

func TestCompare(t *testing.T) {
	owner := []domain.KeywordRecord{
		{Keyword: "tokyo events", CurrentPosition: 2, OrganicTraffic: 600, CurrentURL: "https://www.tokyoweekender.com/events"},
		{Keyword: "tokyo ramen", CurrentPosition: 30, OrganicTraffic: 5},
		{Keyword: "tokyo museums", CurrentPosition: 8, OrganicTraffic: 100},
	}
	competitor := []domain.KeywordRecord{
		{Keyword: "tokyo events", Volume: 2000, CurrentPosition: 6, OrganicTraffic: 900},
		{Keyword: "tokyo ramen", Volume: 1500, CurrentPosition: 4, OrganicTraffic: 700},
		{Keyword: "tokyo museums", Volume: 800, CurrentPosition: 8, OrganicTraffic: 300},
		{Keyword: "tokyo day trips", Volume: 1200, CurrentPosition: 5, OrganicTraffic: 250},
	}

	rows := Compare(owner, competitor, 100)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	byKeyword := map[string]domain.ComparisonRow{}
	for _, r := range rows {
		byKeyword[r.Keyword] = r
	}

	events := byKeyword["tokyo events"]
	if events.Status != domain.StatusBetter {
		t.Errorf("tokyo events status = %q, want better", events.Status)
	}
	if events.OpportunityScore >= 0 {
		t.Errorf("owner-won keyword should score negative, got %f", events.OpportunityScore)
	}
	if events.OwnerPosition != 2 || events.OwnerURL == "" {
		t.Errorf("owner fields not resolved: %+v", events)
	}

	ramen := byKeyword["tokyo ramen"]
	if ramen.Status != domain.StatusWorse {
		t.Errorf("tokyo ramen status = %q, want worse", ramen.Status)
	}
	if math.Abs(ramen.OpportunityScore-1500.0/4) > 1e-9 {
		t.Errorf("tokyo ramen score = %f, want 375", ramen.OpportunityScore)
	}

	if byKeyword["tokyo museums"].Status != domain.StatusSame {
		t.Errorf("tokyo museums status = %q, want same", byKeyword["tokyo museums"].Status)
	}
	if byKeyword["tokyo museums"].OpportunityScore != 0 {
		t.Errorf("same-position keyword should score 0")
	}

	trips := byKeyword["tokyo day trips"]
	if trips.Status != domain.StatusNotRanking || trips.OwnerPosition != 999 {
		t.Errorf("tokyo day trips = %+v, want not_ranking at 999", trips)
	}

	// Ordering: competitor traffic desc, then volume desc.
	if rows[0].Keyword != "tokyo events" || rows[1].Keyword != "tokyo ramen" {
		t.Errorf("rows not ordered by traffic: %q, %q", rows[0].Keyword, rows[1].Keyword)
	}
}

func TestCompare_Limit(t *testing.T) {
	competitor := []domain.KeywordRecord{
		{Keyword: "a", OrganicTraffic: 3},
		{Keyword: "b", OrganicTraffic: 2},
		{Keyword: "c", OrganicTraffic: 1},
	}
	rows := Compare(nil, competitor, 2)
	if len(rows) != 2 || rows[0].Keyword != "a" {
		t.Errorf("limit not applied: %+v", rows)
	}
}
