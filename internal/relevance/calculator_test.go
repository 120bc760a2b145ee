package relevance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"linkscout/internal/domain"
	"linkscout/internal/relevance"
)

// stubSimilarity returns a fixed similarity for every pair.
type stubSimilarity struct{ value float64 }

func (s stubSimilarity) Similarity(_, _ string) float64 { return s.value }

func record(url string, tags []string, wc int, date *time.Time) domain.ContentRecord {
	return domain.ContentRecord{
		URL:         url,
		Tags:        tags,
		WordCount:   wc,
		PublishDate: date,
		Silo:        domain.SiloFromURL(url),
	}
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return &parsed
}

func TestWeightProfilesSumToOne(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, relevance.OutboundWeights.Sum(), 1e-12)
	assert.InDelta(t, 1.0, relevance.InboundWeights.Sum(), 1e-12)
}

func TestTagScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{}, true)
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"no common tags", []string{"x"}, []string{"y"}, 0},
		{"one common tag", []string{"x"}, []string{"x"}, 55},
		{"two common tags", []string{"x", "y"}, []string{"x", "y", "z"}, 80},
		{"three common tags capped", []string{"x", "y", "z"}, []string{"x", "y", "z"}, 100},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := calc.Score(
				record("https://a.com/p/one", tc.a, 0, nil),
				record("https://a.com/q/two", tc.b, 0, nil),
				relevance.Outbound,
			)
			assert.InDelta(t, tc.want, b.TagScore, 1e-9)
		})
	}
}

func TestPathScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{}, true)

	identical := calc.Score(
		record("https://a.com/guides/tomato-care", nil, 0, nil),
		record("https://b.com/guides/tomato-care", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 100, identical.PathScore, 1e-9)

	disjoint := calc.Score(
		record("https://a.com/guides/tomato-care", nil, 0, nil),
		record("https://a.com/recipes/pasta-sauce", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 0, disjoint.PathScore, 1e-9)

	emptyPath := calc.Score(
		record("https://a.com/", nil, 0, nil),
		record("https://a.com/guides/tomato-care", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 0, emptyPath.PathScore, 1e-9)

	stopwordsOnly := calc.Score(
		record("https://a.com/blog/page/index", nil, 0, nil),
		record("https://a.com/guides/tomato-care", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 0, stopwordsOnly.PathScore, 1e-9)
}

func TestDepthScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{}, true)

	halved := calc.Score(
		record("https://a.com/p/one", nil, 1000, nil),
		record("https://a.com/q/two", nil, 500, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 50, halved.DepthScore, 1e-9)

	equal := calc.Score(
		record("https://a.com/p/one", nil, 800, nil),
		record("https://a.com/q/two", nil, 800, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 100, equal.DepthScore, 1e-9)

	missing := calc.Score(
		record("https://a.com/p/one", nil, 0, nil),
		record("https://a.com/q/two", nil, 800, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 50, missing.DepthScore, 1e-9)
}

func TestTemporalScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{}, true)
	older := datePtr(t, "2023-01-01T00:00:00Z")
	newer := datePtr(t, "2024-06-01T00:00:00Z")

	cases := []struct {
		name         string
		dateA, dateB *time.Time
		dir          relevance.Direction
		want         float64
	}{
		{"missing dates neutral", nil, newer, relevance.Inbound, 50},
		{"inbound source newer", newer, older, relevance.Inbound, 70},
		{"inbound source older", older, newer, relevance.Inbound, 30},
		{"outbound target older", newer, older, relevance.Outbound, 70},
		// Outbound never penalizes linking to newer content.
		{"outbound target newer stays neutral", older, newer, relevance.Outbound, 50},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := calc.Score(
				record("https://a.com/p/one", nil, 0, tc.dateA),
				record("https://a.com/q/two", nil, 0, tc.dateB),
				tc.dir,
			)
			assert.InDelta(t, tc.want, b.TemporalScore, 1e-9)
		})
	}
}

func TestDiversityScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{}, true)

	same := calc.Score(
		record("https://a.com/guides/one", nil, 0, nil),
		record("https://a.com/guides/two", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 30, same.DiversityScore, 1e-9)

	cross := calc.Score(
		record("https://a.com/guides/one", nil, 0, nil),
		record("https://a.com/recipes/two", nil, 0, nil),
		relevance.Outbound,
	)
	assert.InDelta(t, 70, cross.DiversityScore, 1e-9)
}

func TestWeightedFinalScore(t *testing.T) {
	t.Parallel()

	calc := relevance.NewCalculator(stubSimilarity{value: 40}, true)
	b := calc.Score(
		record("https://a.com/guides/one", []string{"x", "y"}, 0, nil),
		record("https://a.com/recipes/two", []string{"x", "y", "z"}, 0, nil),
		relevance.Outbound,
	)
	// tag 80*.25 + content 40*.35 + path 0 + depth 50*.10 +
	// temporal 50*.10 + diversity 70*.10
	assert.InDelta(t, 51.0, b.FinalScore, 1e-9)
	assert.Equal(t, []string{"x", "y"}, b.CommonTags)
}

func TestContentSimilarityDisabledForcesZeroWithoutRenormalizing(t *testing.T) {
	t.Parallel()

	enabled := relevance.NewCalculator(stubSimilarity{value: 40}, true)
	disabled := relevance.NewCalculator(stubSimilarity{value: 40}, false)

	src := record("https://a.com/guides/one", []string{"x", "y"}, 0, nil)
	dst := record("https://a.com/recipes/two", []string{"x", "y", "z"}, 0, nil)

	withContent := enabled.Score(src, dst, relevance.Outbound)
	withoutContent := disabled.Score(src, dst, relevance.Outbound)

	assert.Zero(t, withoutContent.ContentScore)
	// The content weight is simply lost, not redistributed.
	assert.InDelta(t, withContent.FinalScore-40*0.35, withoutContent.FinalScore, 1e-9)
}
