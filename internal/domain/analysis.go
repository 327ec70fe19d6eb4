package domain

// PositionBucket aggregates the records whose current position falls inside
// one of the five fixed ranking ranges.
type PositionBucket struct {
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	TotalVolume  int     `json:"total_volume"`
	TotalTraffic int     `json:"total_traffic"`
}

// PositionBucketNames lists the bucket keys in display order.
var PositionBucketNames = []string{"top_3", "top_10", "top_20", "top_50", "not_ranking"}

// IntentBucket aggregates the records carrying one intent flag.
type IntentBucket struct {
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
	TotalVolume int     `json:"total_volume"`
	AvgPosition float64 `json:"avg_position"`
}

// IntentNames lists the six intent flags as they appear in the API contract.
var IntentNames = []string{"navigational", "informational", "commercial", "transactional", "branded", "local"}

// SERPFeatureStats aggregates the records whose SERP features text contains
// one catalog feature name.
type SERPFeatureStats struct {
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	AvgVolume    float64 `json:"avg_volume"`
	AvgPosition  float64 `json:"avg_position"`
	TotalTraffic int     `json:"total_traffic"`
}

// SERPFeatureCatalog is the fixed set of features the dashboard reports on.
// Membership is a substring test against the comma-joined source column.
var SERPFeatureCatalog = []string{
	"Sitelinks", "People also ask", "Local pack", "Thumbnail",
	"Video preview", "Knowledge panel", "AI Overview", "Shopping",
}

// SummaryStats is the dashboard headline block.
type SummaryStats struct {
	TotalKeywords        int     `json:"total_keywords"`
	TotalVolume          int     `json:"total_volume"`
	TotalTraffic         int     `json:"total_traffic"`
	AvgPosition          float64 `json:"avg_position"`
	TopPerformingKeyword int     `json:"top_performing_keywords"`
}

// PerformanceAnalysis groups the derived ranking views returned by the
// performance endpoint.
type PerformanceAnalysis struct {
	TotalKeywords           int                       `json:"total_keywords"`
	TotalVolume             int                       `json:"total_volume"`
	TotalTraffic            int                       `json:"total_traffic"`
	AvgPosition             float64                   `json:"avg_position"`
	PositionDistribution    map[string]PositionBucket `json:"position_distribution"`
	IntentDistribution      map[string]IntentBucket   `json:"intent_distribution"`
	HighPerformanceKeywords []KeywordRecord           `json:"high_performance_keywords"`
	ImprovementOpportunity  []KeywordRecord           `json:"improvement_opportunities"`
}

// ContentGaps holds the owner-only gap views.
type ContentGaps struct {
	HighVolumeGaps            []KeywordRecord `json:"high_volume_gaps"`
	MediumVolumeOpportunities []KeywordRecord `json:"medium_volume_opportunities"`
}

// Opportunity is a keyword a competitor ranks well for while the owner does not.
type Opportunity struct {
	Keyword            string  `json:"keyword"`
	CompetitorSite     string  `json:"competitor_site"`
	Volume             int     `json:"volume"`
	CompetitorPosition int     `json:"competitor_position"`
	CompetitorTraffic  int     `json:"competitor_traffic"`
	CompetitorURL      string  `json:"competitor_url"`
	Difficulty         float64 `json:"keyword_difficulty"`
	OwnerPosition      int     `json:"owner_position"`
	OpportunityScore   float64 `json:"opportunity_score"`
}

// ComparisonStatus classifies owner vs competitor ranking for one keyword.
type ComparisonStatus string

const (
	StatusNotRanking ComparisonStatus = "not_ranking"
	StatusBetter     ComparisonStatus = "better"
	StatusWorse      ComparisonStatus = "worse"
	StatusSame       ComparisonStatus = "same"
)

// ComparisonRow is one keyword in the per-competitor comparison table. The
// owner fields keep the original dashboard's tokyo_weekender_* JSON keys.
type ComparisonRow struct {
	Keyword            string           `json:"keyword"`
	Volume             int              `json:"volume"`
	CompetitorPosition int              `json:"competitor_position"`
	CompetitorTraffic  int              `json:"competitor_traffic"`
	CompetitorURL      string           `json:"competitor_url"`
	Difficulty         float64          `json:"keyword_difficulty"`
	CPC                float64          `json:"cpc"`
	SERPFeatures       string           `json:"serp_features"`
	Informational      bool             `json:"informational"`
	Commercial         bool             `json:"commercial"`
	Transactional      bool             `json:"transactional"`
	Navigational       bool             `json:"navigational"`
	Branded            bool             `json:"branded"`
	Local              bool             `json:"local"`
	OwnerPosition      int              `json:"tokyo_weekender_position"`
	OwnerTraffic       int              `json:"tokyo_weekender_traffic"`
	OwnerURL           string           `json:"tokyo_weekender_url"`
	OpportunityScore   float64          `json:"opportunity_score"`
	Status             ComparisonStatus `json:"status"`
}

// CompetitorSummary is the per-site headline block.
type CompetitorSummary struct {
	SiteName      string  `json:"site_name"`
	DisplayName   string  `json:"display_name"`
	TotalKeywords int     `json:"total_keywords"`
	TotalVolume   int     `json:"total_volume"`
	TotalTraffic  int     `json:"total_traffic"`
	AvgPosition   float64 `json:"avg_position"`
}

// LocationStats is one row of the locations listing.
type LocationStats struct {
	Location     string `json:"location"`
	KeywordCount int    `json:"keyword_count"`
	TotalTraffic int    `json:"total_traffic"`
}
