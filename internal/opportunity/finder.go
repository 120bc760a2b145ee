package opportunity

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"linkscout/internal/diversity"
	"linkscout/internal/domain"
	"linkscout/internal/relevance"
)

const (
	// pillarWordCount marks long-form content worth linking out to.
	pillarWordCount = 1500
	// pillarBoost rewards outbound links to pillar content.
	pillarBoost = 1.10
	// freshnessBoost rewards inbound links from content published after
	// the pivot.
	freshnessBoost = 1.15
	// bufferFactor keeps extra candidates around so the diversity pass
	// has material to re-rank before the final cut.
	bufferFactor = 2
)

// Options are the caller-supplied knobs for one search.
type Options struct {
	MinRelevance float64 // percentage threshold in [0,100]
	MaxResults   int     // positive cap on the returned list
	MaxPerSilo   int     // 0 means the direction's default
}

func (o Options) validate() error {
	if o.MinRelevance < 0 || o.MinRelevance > 100 {
		return fmt.Errorf("min relevance %.2f outside [0,100]", o.MinRelevance)
	}
	if o.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", o.MaxResults)
	}
	return nil
}

// Finder ranks link opportunities for a pivot record against the corpus.
type Finder struct {
	calc    *relevance.Calculator
	log     *zap.Logger
	workers int
}

// NewFinder creates a finder. workers <= 0 uses one worker per CPU.
func NewFinder(calc *relevance.Calculator, log *zap.Logger, workers int) *Finder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{calc: calc, log: log, workers: workers}
}

// FindOutbound ranks corpus documents as link targets for the pivot.
func (f *Finder) FindOutbound(pivot domain.ContentRecord, corpus []domain.ContentRecord, opts Options) ([]domain.Opportunity, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	maxPerSilo := opts.MaxPerSilo
	if maxPerSilo <= 0 {
		maxPerSilo = diversity.DefaultMaxPerSiloOutbound
	}
	opps := f.collect(pivot, corpus, opts.MinRelevance, relevance.Outbound)
	f.log.Debug("outbound candidates admitted",
		zap.String("pivot", pivot.URL),
		zap.Int("count", len(opps)))
	return finalize(opps, opts.MaxResults, maxPerSilo, "", relevance.Outbound), nil
}

// FindInbound ranks corpus documents as link sources pointing at the
// pivot.
func (f *Finder) FindInbound(pivot domain.ContentRecord, corpus []domain.ContentRecord, opts Options) ([]domain.Opportunity, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	maxPerSilo := opts.MaxPerSilo
	if maxPerSilo <= 0 {
		maxPerSilo = diversity.DefaultMaxPerSiloInbound
	}
	opps := f.collect(pivot, corpus, opts.MinRelevance, relevance.Inbound)
	f.log.Debug("inbound candidates admitted",
		zap.String("pivot", pivot.URL),
		zap.Int("count", len(opps)))
	return finalize(opps, opts.MaxResults, maxPerSilo, pivot.URL, relevance.Inbound), nil
}

// collect scores every candidate against the pivot in parallel, then
// filters, boosts and assembles admitted opportunities in the corpus's
// original iteration order so later stable sorts break ties
// deterministically.
func (f *Finder) collect(pivot domain.ContentRecord, corpus []domain.ContentRecord, minRelevance float64, dir relevance.Direction) []domain.Opportunity {
	breakdowns := make([]relevance.Breakdown, len(corpus))
	scored := make([]bool, len(corpus))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				candidate := corpus[i]
				if dir == relevance.Outbound {
					breakdowns[i] = f.calc.Score(pivot, candidate, dir)
				} else {
					breakdowns[i] = f.calc.Score(candidate, pivot, dir)
				}
				scored[i] = true
			}
		}()
	}
	for i := range corpus {
		if corpus[i].URL == pivot.URL {
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var opps []domain.Opportunity
	for i := range corpus {
		if !scored[i] {
			continue
		}
		b := breakdowns[i]
		if b.FinalScore < minRelevance {
			continue
		}
		candidate := corpus[i]
		score := b.FinalScore
		silo := b.TargetSilo
		if dir == relevance.Inbound {
			silo = b.SourceSilo
			if pivot.PublishDate != nil && candidate.PublishDate != nil &&
				candidate.PublishDate.After(*pivot.PublishDate) {
				score *= freshnessBoost
			}
		} else if candidate.WordCount > pillarWordCount {
			score *= pillarBoost
		}
		opps = append(opps, domain.Opportunity{
			URL:            candidate.URL,
			Title:          candidate.Title,
			FinalScore:     score,
			TagScore:       b.TagScore,
			ContentScore:   b.ContentScore,
			PathScore:      b.PathScore,
			DepthScore:     b.DepthScore,
			TemporalScore:  b.TemporalScore,
			DiversityScore: b.DiversityScore,
			CommonTags:     b.CommonTags,
			Silo:           silo,
			WordCount:      candidate.WordCount,
			PublishDate:    candidate.PublishDate,
		})
	}
	return opps
}

// finalize runs the shared tail of both searches: sort, buffer into the
// diversity pass, re-sort, optionally scatter near-ties, truncate.
func finalize(opps []domain.Opportunity, maxResults, maxPerSilo int, scatterPivotURL string, dir relevance.Direction) []domain.Opportunity {
	sortByScore(opps)
	if buffer := maxResults * bufferFactor; len(opps) > buffer {
		opps = opps[:buffer]
	}
	diversity.Penalize(opps, maxPerSilo)
	sortByScore(opps)
	if dir == relevance.Inbound {
		diversity.Scatter(opps, scatterPivotURL)
	}
	if len(opps) > maxResults {
		opps = opps[:maxResults]
	}
	for i := range opps {
		opps[i].FinalScore = math.Round(opps[i].FinalScore*100) / 100
	}
	return opps
}

func sortByScore(opps []domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].FinalScore > opps[j].FinalScore
	})
}
