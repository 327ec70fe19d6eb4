package domain

import "time"

// NotRankingPosition is the sentinel stored when the rank tracker reports no
// position for a keyword (missing, invalid, or beyond the tracked range).
const NotRankingPosition = 999

// KeywordRecord is one observed ranking fact for a keyword on one site.
// CompetitorSite is empty for the owner site's records.
type KeywordRecord struct {
	ID               int64   `json:"id" db:"id"`
	CompetitorSite   string  `json:"competitor_site,omitempty" db:"competitor_site"`
	Keyword          string  `json:"keyword" db:"keyword"`
	CountryCode      string  `json:"country_code" db:"country_code"`
	Location         string  `json:"location" db:"location"`
	Entities         string  `json:"entities" db:"entities"`
	SERPFeatures     string  `json:"serp_features" db:"serp_features"`
	Volume           int     `json:"volume" db:"volume"`
	Difficulty       float64 `json:"keyword_difficulty" db:"keyword_difficulty"`
	CPC              float64 `json:"cpc" db:"cpc"`
	OrganicTraffic   int     `json:"organic_traffic" db:"organic_traffic"`
	PaidTraffic      int     `json:"paid_traffic" db:"paid_traffic"`
	CurrentPosition  int     `json:"current_position" db:"current_position"`
	CurrentURL       string  `json:"current_url" db:"current_url"`
	CurrentURLInside bool    `json:"current_url_inside" db:"current_url_inside"`

	// Intent flags are not mutually exclusive; a keyword may carry several.
	Navigational  bool `json:"navigational" db:"navigational"`
	Informational bool `json:"informational" db:"informational"`
	Commercial    bool `json:"commercial" db:"commercial"`
	Transactional bool `json:"transactional" db:"transactional"`
	Branded       bool `json:"branded" db:"branded"`
	Local         bool `json:"local" db:"local"`

	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// IsOwner reports whether the record belongs to the primary site.
func (r KeywordRecord) IsOwner() bool { return r.CompetitorSite == "" }

// IsRanking reports whether the rank tracker observed a real position.
func (r KeywordRecord) IsRanking() bool { return r.CurrentPosition < NotRankingPosition }

// IngestionRun records one atomic partition replacement.
type IngestionRun struct {
	ID             string    `json:"id"`
	CompetitorSite string    `json:"competitor_site,omitempty"`
	SourceFile     string    `json:"source_file"`
	RowCount       int       `json:"row_count"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}
