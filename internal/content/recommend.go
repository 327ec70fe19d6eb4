package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/analytics"
	"github.com/tknakamura/tokyo-weekender-seo-dashboard/internal/domain"
)

// Default result sizes for the combined recommendations payload.
const (
	defaultNewContentLimit  = 8
	defaultImprovementLimit = 12
	defaultClusterLimit     = 3
)

// minClusterKeywords is the floor below which a topic cluster is discarded.
const minClusterKeywords = 5

// Generator produces content recommendations from keyword records using the
// classification tables in its Config.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator. A zero-value Config falls back to the
// default taxonomy.
func NewGenerator(cfg Config) *Generator {
	if len(cfg.Clusters) == 0 && cfg.TitleTemplates == nil {
		cfg = DefaultConfig()
	}
	return &Generator{cfg: cfg}
}

// Recommendations builds the full payload: new-content proposals from
// competitor keywords, improvement proposals from owner keywords, topic
// clusters, and the summary block.
func (g *Generator) Recommendations(owner []domain.KeywordRecord, competitors map[string][]domain.KeywordRecord) domain.ContentRecommendations {
	newContent := g.NewContent(owner, competitors, defaultNewContentLimit)
	improvements := g.Improvements(owner, defaultImprovementLimit)
	clusters := g.TopicClusters(owner, defaultClusterLimit)

	potential := 0
	for _, c := range newContent {
		potential += c.PotentialTraffic
	}
	priority := PriorityLow
	switch {
	case potential > 20000:
		priority = PriorityHigh
	case potential > 10000:
		priority = PriorityMedium
	}

	return domain.ContentRecommendations{
		Summary: domain.RecommendationSummary{
			NewContentProposals:  len(newContent),
			ImprovementProposals: len(improvements),
			PotentialTraffic:     potential,
			Priority:             priority,
		},
		NewContent:    newContent,
		Improvements:  improvements,
		TopicClusters: clusters,
	}
}

// NewContent proposes pages for keywords competitors rank for with high volume
// and low difficulty while the owner sits past position 20.
func (g *Generator) NewContent(owner []domain.KeywordRecord, competitors map[string][]domain.KeywordRecord, limit int) []domain.NewContentRecommendation {
	if limit <= 0 {
		limit = defaultNewContentLimit
	}

	idx := analytics.OwnerIndex(owner)

	sites := make([]string, 0, len(competitors))
	for site := range competitors {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	var candidates []domain.KeywordRecord
	for _, site := range sites {
		for _, rec := range competitors[site] {
			if rec.Volume <= 1000 || rec.Difficulty >= 40 {
				continue
			}
			ownerPos := domain.NotRankingPosition
			if o, ok := idx[rec.Keyword]; ok {
				ownerPos = o.CurrentPosition
			}
			if ownerPos <= 20 {
				continue
			}
			candidates = append(candidates, rec)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Volume > candidates[j].Volume
	})

	// The same keyword can appear in several competitor exports; propose it
	// once, keeping the highest-volume sighting.
	seen := map[string]bool{}
	deduped := candidates[:0]
	for _, rec := range candidates {
		if seen[rec.Keyword] {
			continue
		}
		seen[rec.Keyword] = true
		deduped = append(deduped, rec)
	}
	candidates = deduped
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]domain.NewContentRecommendation, 0, len(candidates))
	for _, rec := range candidates {
		ownerPos := domain.NotRankingPosition
		if o, ok := idx[rec.Keyword]; ok {
			ownerPos = o.CurrentPosition
		}
		contentType := classifyContentType(rec.Keyword)
		out = append(out, domain.NewContentRecommendation{
			Title:            fmt.Sprintf(g.cfg.TitleTemplates[contentType], titleCase(rec.Keyword)),
			Keyword:          rec.Keyword,
			Volume:           rec.Volume,
			Difficulty:       rec.Difficulty,
			PotentialTraffic: int(float64(rec.Volume) * 0.3),
			ContentType:      contentType,
			Priority:         newContentPriority(rec.Volume, rec.Difficulty, ownerPos),
			EstimatedEffort:  estimatedEffort(contentType, rec.Difficulty),
			TargetAudience:   targetAudience(rec.Keyword),
			ContentAngle:     fmt.Sprintf(g.cfg.AngleTemplates[contentType], rec.Keyword),
		})
	}
	return out
}

// classifyContentType derives the proposal format from keyword substrings.
// The Guide check runs first, so "best" resolves to Guide even though it also
// appears in the Listicle terms.
func classifyContentType(keyword string) string {
	k := strings.ToLower(keyword)
	switch {
	case containsAny(k, "guide", "how to", "tips", "best"):
		return TypeGuide
	case containsAny(k, "best", "top", "list"):
		return TypeListicle
	case containsAny(k, "review", "comparison"):
		return TypeReview
	default:
		return TypeArticle
	}
}

func newContentPriority(volume int, difficulty float64, ownerPosition int) string {
	switch {
	case volume > 2000 && difficulty < 30 && ownerPosition > 20:
		return PriorityHigh
	case volume > 1000 && difficulty < 40:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func estimatedEffort(contentType string, difficulty float64) string {
	switch {
	case contentType == TypeGuide && difficulty > 30:
		return PriorityHigh
	case contentType == TypeListicle || difficulty < 20:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func targetAudience(keyword string) string {
	k := strings.ToLower(keyword)
	switch {
	case containsAny(k, "tourist", "visit", "travel"):
		return "Tourists"
	case containsAny(k, "food", "restaurant", "dining"):
		return "Food enthusiasts"
	case containsAny(k, "nightlife", "bar", "club"):
		return "Young adults"
	default:
		return "General audience"
	}
}

// Improvements proposes work on owner pages ranking 5-20 with real volume and
// at least some traffic, ranked by volume-per-position.
func (g *Generator) Improvements(owner []domain.KeywordRecord, limit int) []domain.ImprovementRecommendation {
	if limit <= 0 {
		limit = defaultImprovementLimit
	}

	var candidates []domain.KeywordRecord
	for _, rec := range owner {
		if rec.CurrentPosition >= 5 && rec.CurrentPosition <= 20 &&
			rec.Volume > 500 && rec.OrganicTraffic > 0 {
			candidates = append(candidates, rec)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return float64(candidates[i].Volume)/float64(candidates[i].CurrentPosition) >
			float64(candidates[j].Volume)/float64(candidates[j].CurrentPosition)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]domain.ImprovementRecommendation, 0, len(candidates))
	for _, rec := range candidates {
		target := rec.CurrentPosition - 3
		if target < 1 {
			target = 1
		}
		improvementType := classifyImprovement(rec.CurrentPosition, rec.Difficulty)
		out = append(out, domain.ImprovementRecommendation{
			Title:                fmt.Sprintf("Optimize %q content", titleCase(rec.Keyword)),
			CurrentURL:           rec.CurrentURL,
			Keyword:              rec.Keyword,
			CurrentPosition:      rec.CurrentPosition,
			TargetPosition:       target,
			PotentialTrafficGain: int(float64(rec.Volume) * 0.2),
			ImprovementType:      improvementType,
			Priority:             improvementPriority(rec.Volume, rec.CurrentPosition, rec.OrganicTraffic),
			Recommendations:      g.cfg.ImprovementActions[improvementType],
		})
	}
	return out
}

func classifyImprovement(position int, difficulty float64) string {
	switch {
	case position > 15:
		return ImproveContentEnhancement
	case difficulty > 30:
		return ImproveSEOOptimization
	default:
		return ImproveContentExpansion
	}
}

func improvementPriority(volume, position, traffic int) string {
	switch {
	case volume > 1000 && position > 10 && traffic < 100:
		return PriorityHigh
	case volume > 500 && position > 5:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// TopicClusters groups owner keywords with volume above 100 by the cluster
// taxonomy. Keywords outside the taxonomy are discarded; clusters with fewer
// than five keywords are dropped.
func (g *Generator) TopicClusters(owner []domain.KeywordRecord, limit int) []domain.TopicCluster {
	if limit <= 0 {
		limit = defaultClusterLimit
	}

	type acc struct {
		count       int
		totalVolume int
		traffic     int
		positionSum int
	}
	byCluster := make(map[string]*acc, len(g.cfg.Clusters))

	for _, rec := range owner {
		if rec.Volume <= 100 {
			continue
		}
		def, ok := g.classifyCluster(rec.Keyword)
		if !ok {
			continue
		}
		a := byCluster[def.Name]
		if a == nil {
			a = &acc{}
			byCluster[def.Name] = a
		}
		a.count++
		a.totalVolume += rec.Volume
		a.traffic += rec.OrganicTraffic
		a.positionSum += rec.CurrentPosition
	}

	var out []domain.TopicCluster
	for _, def := range g.cfg.Clusters {
		a := byCluster[def.Name]
		if a == nil || a.count < minClusterKeywords {
			continue
		}
		avgPosition := float64(a.positionSum) / float64(a.count)
		out = append(out, domain.TopicCluster{
			ClusterName:        def.Name,
			PrimaryKeyword:     def.PrimaryKeyword,
			SupportingKeywords: def.SupportingKeywords,
			KeywordCount:       a.count,
			TotalVolume:        a.totalVolume,
			ContentPieces:      clamp(a.count/2, 4, 8),
			PotentialTraffic:   int(float64(a.traffic) * 1.5),
			Priority:           clusterPriority(a.totalVolume, avgPosition),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalVolume > out[j].TotalVolume
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// classifyCluster matches a keyword to the first cluster whose terms it
// contains. The base term must be present first.
func (g *Generator) classifyCluster(keyword string) (ClusterDef, bool) {
	k := strings.ToLower(keyword)
	if g.cfg.BaseTerm != "" && !strings.Contains(k, g.cfg.BaseTerm) {
		return ClusterDef{}, false
	}
	for _, def := range g.cfg.Clusters {
		if containsAny(k, def.MatchTerms...) {
			return def, true
		}
	}
	return ClusterDef{}, false
}

func clusterPriority(totalVolume int, avgPosition float64) string {
	switch {
	case totalVolume > 10000 && avgPosition > 15:
		return PriorityHigh
	case totalVolume > 5000:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
