// Package content generates rule-based content proposals from keyword data:
// new-content candidates, improvement candidates, and topic clusters. The
// classification tables live in an immutable Config handed to the generator at
// construction, so alternate taxonomies can be tested without touching
// process-wide state.
package content

// ClusterDef defines one topic cluster in the taxonomy: the terms that pull a
// keyword into the cluster, plus the static hub proposal attached to it.
type ClusterDef struct {
	Name               string
	MatchTerms         []string
	PrimaryKeyword     string
	SupportingKeywords []string
}

// Config holds the static classification tables for all three generators.
type Config struct {
	// BaseTerm gates cluster membership: a keyword must contain it before the
	// cluster match terms are consulted.
	BaseTerm string
	Clusters []ClusterDef

	// TitleTemplates and AngleTemplates are fmt templates keyed by content
	// type, each taking the keyword as the single argument.
	TitleTemplates map[string]string
	AngleTemplates map[string]string

	// ImprovementActions lists the fixed recommendation bullets per
	// improvement type.
	ImprovementActions map[string][]string
}

// Content types assigned by the new-content classifier.
const (
	TypeGuide    = "Guide"
	TypeListicle = "Listicle"
	TypeReview   = "Review"
	TypeArticle  = "Article"
)

// Improvement types assigned by the improvement classifier.
const (
	ImproveContentEnhancement = "Content Enhancement"
	ImproveSEOOptimization    = "SEO Optimization"
	ImproveContentExpansion   = "Content Expansion"
)

// Priority and effort labels.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// DefaultConfig returns the production taxonomy for the Tokyo Weekender site.
func DefaultConfig() Config {
	return Config{
		BaseTerm: "tokyo",
		Clusters: []ClusterDef{
			{
				Name:           "Tokyo Food & Dining",
				MatchTerms:     []string{"food", "restaurant", "ramen", "sushi", "dining", "izakaya", "cafe"},
				PrimaryKeyword: "tokyo food",
				SupportingKeywords: []string{
					"tokyo ramen", "tokyo sushi", "tokyo street food", "tokyo izakaya", "tokyo dessert",
				},
			},
			{
				Name:           "Tokyo Transportation",
				MatchTerms:     []string{"transport", "train", "metro", "subway", "station", "airport"},
				PrimaryKeyword: "tokyo transportation",
				SupportingKeywords: []string{
					"tokyo metro", "tokyo train pass", "tokyo subway map", "tokyo airport transfer", "tokyo station guide",
				},
			},
			{
				Name:           "Tokyo Accommodation",
				MatchTerms:     []string{"hotel", "hostel", "ryokan", "stay", "accommodation"},
				PrimaryKeyword: "tokyo hotels",
				SupportingKeywords: []string{
					"tokyo capsule hotel", "tokyo ryokan", "best area to stay in tokyo", "tokyo budget hotels", "tokyo luxury hotels",
				},
			},
			{
				Name:           "Tokyo Shopping",
				MatchTerms:     []string{"shopping", "shop", "store", "market", "souvenir"},
				PrimaryKeyword: "tokyo shopping",
				SupportingKeywords: []string{
					"tokyo shopping streets", "tokyo vintage shops", "tokyo souvenirs", "tokyo flea markets", "tokyo department stores",
				},
			},
			{
				Name:           "Tokyo Nightlife & Entertainment",
				MatchTerms:     []string{"nightlife", "bar", "club", "karaoke", "entertainment"},
				PrimaryKeyword: "tokyo nightlife",
				SupportingKeywords: []string{
					"tokyo bars", "tokyo clubs", "tokyo karaoke", "tokyo izakaya hopping", "tokyo night tours",
				},
			},
		},
		TitleTemplates: map[string]string{
			TypeGuide:    "The Complete Guide to %s",
			TypeListicle: "The Best of %s: Our Top Picks",
			TypeReview:   "%s: An Honest Review",
			TypeArticle:  "%s: Everything You Need to Know",
		},
		AngleTemplates: map[string]string{
			TypeGuide:    "In-depth guide covering %s with practical tips and local insight",
			TypeListicle: "Curated list targeting %s with comparisons and quick takeaways",
			TypeReview:   "First-hand review addressing %s for readers deciding where to go",
			TypeArticle:  "Editorial feature answering the search intent behind %s",
		},
		ImprovementActions: map[string][]string{
			ImproveContentEnhancement: {
				"Refresh the content with current information and dates",
				"Add original photos and embedded video",
				"Expand thin sections to fully answer the query",
				"Add internal links from related high-traffic pages",
			},
			ImproveSEOOptimization: {
				"Rework title tag and meta description around the target keyword",
				"Add structured data markup for rich results",
				"Improve heading hierarchy to match search intent",
				"Build internal and external links to the page",
			},
			ImproveContentExpansion: {
				"Add an FAQ section covering related queries",
				"Cover adjacent subtopics searchers expect",
				"Add a comparison table or quick-reference summary",
				"Link out to supporting cluster content",
			},
		},
	}
}
