package domain

// NewContentRecommendation proposes a page the owner site does not have yet,
// derived from a keyword competitors rank for.
type NewContentRecommendation struct {
	Title            string  `json:"title"`
	Keyword          string  `json:"keyword"`
	Volume           int     `json:"volume"`
	Difficulty       float64 `json:"difficulty"`
	PotentialTraffic int     `json:"potential_traffic"`
	ContentType      string  `json:"content_type"`
	Priority         string  `json:"priority"`
	EstimatedEffort  string  `json:"estimated_effort"`
	TargetAudience   string  `json:"target_audience"`
	ContentAngle     string  `json:"content_angle"`
}

// ImprovementRecommendation proposes work on an existing owner page that
// already ranks but below its potential.
type ImprovementRecommendation struct {
	Title                string   `json:"title"`
	CurrentURL           string   `json:"current_url"`
	Keyword              string   `json:"keyword"`
	CurrentPosition      int      `json:"current_position"`
	TargetPosition       int      `json:"target_position"`
	PotentialTrafficGain int      `json:"potential_traffic_gain"`
	ImprovementType      string   `json:"improvement_type"`
	Priority             string   `json:"priority"`
	Recommendations      []string `json:"recommendations"`
}

// TopicCluster groups owner keywords under one content hub proposal.
type TopicCluster struct {
	ClusterName        string   `json:"cluster_name"`
	PrimaryKeyword     string   `json:"primary_keyword"`
	SupportingKeywords []string `json:"supporting_keywords"`
	KeywordCount       int      `json:"keyword_count"`
	TotalVolume        int      `json:"total_volume"`
	ContentPieces      int      `json:"content_pieces"`
	PotentialTraffic   int      `json:"potential_traffic"`
	Priority           string   `json:"priority"`
}

// RecommendationSummary is the headline block of the recommendations payload.
type RecommendationSummary struct {
	NewContentProposals  int    `json:"new_content_proposals"`
	ImprovementProposals int    `json:"improvement_proposals"`
	PotentialTraffic     int    `json:"potential_traffic"`
	Priority             string `json:"priority"`
}

// ContentRecommendations is the full recommendations payload.
type ContentRecommendations struct {
	Summary       RecommendationSummary       `json:"summary"`
	NewContent    []NewContentRecommendation  `json:"new_content"`
	Improvements  []ImprovementRecommendation `json:"improvements"`
	TopicClusters []TopicCluster              `json:"topic_clusters"`
}
