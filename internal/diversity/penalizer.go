package diversity

import (
	"hash/fnv"
	"math"
	"math/rand"

	"linkscout/internal/domain"
)

const (
	// penaltyStep is the extra penalty for each occurrence of a silo
	// beyond the allowed maximum.
	penaltyStep = 0.15
	// penaltyFloor caps the total loss at half the original score.
	penaltyFloor = 0.5
	// scatterMinSize is the list length above which the tie-scatter runs.
	scatterMinSize = 5
	// scatterBand groups opportunities whose scores sit within this many
	// absolute points of the group head.
	scatterBand = 5.0
)

// Default per-silo limits. Inbound lists want maximal source diversity.
const (
	DefaultMaxPerSiloOutbound = 2
	DefaultMaxPerSiloInbound  = 1
)

// Penalize walks the score-sorted list once, counting occurrences per
// silo, and discounts the k-th occurrence beyond maxPerSilo by
// 15% per excess step, floored at 50% of the original score. Entries
// already carrying the penalty flag are never re-penalized, so running
// the pass again over an already penalized list changes no score.
// The counting pass is sequential by design and must stay that way.
func Penalize(opps []domain.Opportunity, maxPerSilo int) {
	if maxPerSilo <= 0 {
		maxPerSilo = DefaultMaxPerSiloOutbound
	}
	counts := make(map[string]int)
	for i := range opps {
		silo := opps[i].Silo
		counts[silo]++
		if counts[silo] <= maxPerSilo || opps[i].DiversityPenalty {
			continue
		}
		multiplier := 1 - penaltyStep*float64(counts[silo]-maxPerSilo)
		opps[i].FinalScore *= math.Max(penaltyFloor, multiplier)
		opps[i].DiversityPenalty = true
	}
}

// Scatter reorders near-tied opportunities within score bands using a
// permutation seeded from the pivot URL, so similar pivots do not show
// visually identical lists while the score ordering across bands is
// preserved. The input must already be sorted descending by score.
func Scatter(opps []domain.Opportunity, pivotURL string) {
	if len(opps) <= scatterMinSize {
		return
	}
	rng := rand.New(rand.NewSource(seedFromURL(pivotURL)))
	start := 0
	anchor := opps[0].FinalScore
	for i := 1; i <= len(opps); i++ {
		if i < len(opps) && math.Abs(opps[i].FinalScore-anchor) < scatterBand {
			continue
		}
		shuffleGroup(opps[start:i], rng)
		if i < len(opps) {
			start = i
			anchor = opps[i].FinalScore
		}
	}
}

func shuffleGroup(group []domain.Opportunity, rng *rand.Rand) {
	if len(group) < 2 {
		return
	}
	rng.Shuffle(len(group), func(i, j int) {
		group[i], group[j] = group[j], group[i]
	})
}

// seedFromURL derives a stable per-pivot seed, replacing any reliance
// on global random state.
func seedFromURL(pivotURL string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(pivotURL))
	return int64(h.Sum64())
}
