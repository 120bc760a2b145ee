package relevance

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"linkscout/internal/domain"
)

// Direction distinguishes the two linking strategies. The source record
// is always the would-be link's origin: the pivot for outbound scoring,
// the candidate for inbound scoring.
type Direction int

const (
	Outbound Direction = iota
	Inbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Weights is one direction's weight profile over the six sub-scores.
// Each profile sums to 1.0.
type Weights struct {
	Tag       float64
	Content   float64
	Path      float64
	Depth     float64
	Temporal  float64
	Diversity float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Tag + w.Content + w.Path + w.Depth + w.Temporal + w.Diversity
}

// Outbound linking rewards strong topical match to established content;
// inbound linking weighs temporal novelty and source diversity heavier.
var (
	OutboundWeights = Weights{Tag: 0.25, Content: 0.35, Path: 0.10, Depth: 0.10, Temporal: 0.10, Diversity: 0.10}
	InboundWeights  = Weights{Tag: 0.20, Content: 0.30, Path: 0.10, Depth: 0.10, Temporal: 0.15, Diversity: 0.15}
)

// Breakdown carries the weighted final score, all six sub-scores and
// the common tag set, so every ranking stays explainable.
type Breakdown struct {
	FinalScore     float64
	TagScore       float64
	ContentScore   float64
	PathScore      float64
	DepthScore     float64
	TemporalScore  float64
	DiversityScore float64
	CommonTags     []string
	SourceSilo     string
	TargetSilo     string
}

// SimilaritySource answers pairwise content similarity in [0,100].
type SimilaritySource interface {
	Similarity(urlA, urlB string) float64
}

// Calculator combines the six sub-scores into one weighted relevance
// score. Missing features degrade to neutral or zero values; scoring
// never fails.
type Calculator struct {
	similarity     SimilaritySource
	contentEnabled bool
}

// NewCalculator creates a calculator backed by the given similarity
// source. With contentEnabled false the content score is forced to 0
// and the weights are not renormalized.
func NewCalculator(similarity SimilaritySource, contentEnabled bool) *Calculator {
	return &Calculator{similarity: similarity, contentEnabled: contentEnabled}
}

// Score rates a link from source to target under the given direction's
// weight profile.
func (c *Calculator) Score(source, target domain.ContentRecord, dir Direction) Breakdown {
	common := commonTags(source.Tags, target.Tags)

	tagScore := 0.0
	if len(common) > 0 {
		tagScore = math.Min(100, 30+float64(len(common))*25)
	}

	contentScore := 0.0
	if c.contentEnabled && c.similarity != nil {
		contentScore = c.similarity.Similarity(source.URL, target.URL)
	}

	pathScore := pathSimilarity(source.URL, target.URL)
	depthScore := depthAlignment(source.WordCount, target.WordCount)
	temporalScore := temporalRelevance(source.PublishDate, target.PublishDate, dir)

	// Cross-silo links earn a bonus to encourage a topic mesh.
	diversityScore := 30.0
	if source.Silo != target.Silo {
		diversityScore = 70.0
	}

	w := OutboundWeights
	if dir == Inbound {
		w = InboundWeights
	}
	final := tagScore*w.Tag +
		contentScore*w.Content +
		pathScore*w.Path +
		depthScore*w.Depth +
		temporalScore*w.Temporal +
		diversityScore*w.Diversity

	return Breakdown{
		FinalScore:     round2(final),
		TagScore:       round2(tagScore),
		ContentScore:   round2(contentScore),
		PathScore:      round2(pathScore),
		DepthScore:     round2(depthScore),
		TemporalScore:  round2(temporalScore),
		DiversityScore: round2(diversityScore),
		CommonTags:     common,
		SourceSilo:     source.Silo,
		TargetSilo:     target.Silo,
	}
}

// pathTokenRe splits URL paths on word boundaries.
var pathTokenRe = regexp.MustCompile(`\w+`)

// pathStopwords drops generic path terms plus English function words
// before comparing URL slugs.
var pathStopwords = toSet([]string{
	"index", "page", "article", "post", "blog", "category", "tag",
	"the", "a", "an", "and", "or", "in", "on", "at", "to", "for", "with",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might",
})

// pathSimilarity is the Jaccard index of the two URLs' path token sets,
// scaled to [0,100]. Either set empty yields 0.
func pathSimilarity(urlA, urlB string) float64 {
	a := pathTokens(urlA)
	b := pathTokens(urlB)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union) * 100
}

func pathTokens(rawURL string) map[string]struct{} {
	path := strings.ToLower(domain.URLPath(rawURL))
	tokens := pathTokenRe.FindAllString(path, -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, isStop := pathStopwords[t]; isStop {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// depthAlignment rewards similar word counts; neutral 50 when either
// count is missing.
func depthAlignment(wcA, wcB int) float64 {
	if wcA <= 0 || wcB <= 0 {
		return 50
	}
	maxWC := wcA
	if wcB > maxWC {
		maxWC = wcB
	}
	diff := math.Abs(float64(wcA-wcB)) / float64(maxWC)
	return (1 - diff) * 100
}

// temporalRelevance scores publish-date ordering. Inbound wants the
// source newer than the target (70/30); outbound wants an established
// target but never scores below neutral for linking to newer content.
func temporalRelevance(dateA, dateB *time.Time, dir Direction) float64 {
	if dateA == nil || dateB == nil {
		return 50
	}
	if dir == Inbound {
		if dateA.After(*dateB) {
			return 70
		}
		return 30
	}
	if dateB.Before(*dateA) {
		return 70
	}
	return 50
}

func commonTags(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	var common []string
	seen := make(map[string]struct{})
	for _, t := range b {
		if _, ok := set[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		common = append(common, t)
	}
	sort.Strings(common)
	return common
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
