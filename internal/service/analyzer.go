package service

import (
	"fmt"

	"go.uber.org/zap"

	"linkscout/internal/domain"
	"linkscout/internal/index"
	"linkscout/internal/opportunity"
	"linkscout/internal/relevance"
)

// Params are the caller-facing analysis settings.
type Params struct {
	MinRelevance       float64
	MaxResults         int
	MaxPerSiloOutbound int
	MaxPerSiloInbound  int
	ContentSimilarity  bool
}

// Analyzer runs the full pipeline: sitemap, page records, corpus index,
// then ranked outbound and inbound opportunity lists.
type Analyzer struct {
	fetcher domain.Fetcher
	idx     *index.CorpusIndex
	finder  *opportunity.Finder
	params  Params
	log     *zap.Logger
}

// NewAnalyzer wires the scoring pipeline around the given fetcher.
func NewAnalyzer(fetcher domain.Fetcher, idx *index.CorpusIndex, params Params, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	calc := relevance.NewCalculator(idx, params.ContentSimilarity)
	return &Analyzer{
		fetcher: fetcher,
		idx:     idx,
		finder:  opportunity.NewFinder(calc, log, 0),
		params:  params,
		log:     log,
	}
}

// Analyze fetches the corpus and ranks link opportunities for the pivot.
func (a *Analyzer) Analyze(pivotURL, sitemapURL string) (*domain.Report, error) {
	urls, err := a.fetcher.FetchSitemap(sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("sitemap %s: %w", sitemapURL, err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("sitemap %s contains no URLs", sitemapURL)
	}
	if !contains(urls, pivotURL) {
		a.log.Warn("pivot URL not in sitemap, adding it to the analysis",
			zap.String("pivot", pivotURL))
		urls = append(urls, pivotURL)
	}
	a.log.Info("sitemap fetched", zap.Int("urls", len(urls)))

	records := a.fetcher.FetchPages(urls)

	// Keep sitemap order so index rows and tie-breaks are deterministic.
	corpus := make([]domain.ContentRecord, 0, len(urls))
	docs := make([]index.Document, 0, len(urls))
	for _, u := range urls {
		rec, ok := records[u]
		if !ok {
			rec = domain.ContentRecord{URL: u, Silo: domain.SiloFromURL(u)}
		}
		corpus = append(corpus, rec)
		docs = append(docs, index.Document{URL: u, Text: rec.CombinedText()})
	}

	if a.params.ContentSimilarity {
		a.idx.Fit(docs)
		a.log.Info("content similarity model fitted", zap.Bool("usable", a.idx.Fitted()))
	}

	pivot := records[pivotURL]
	if pivot.URL == "" {
		pivot = domain.ContentRecord{URL: pivotURL, Silo: domain.SiloFromURL(pivotURL)}
	}

	outbound, err := a.finder.FindOutbound(pivot, corpus, opportunity.Options{
		MinRelevance: a.params.MinRelevance,
		MaxResults:   a.params.MaxResults,
		MaxPerSilo:   a.params.MaxPerSiloOutbound,
	})
	if err != nil {
		return nil, fmt.Errorf("outbound search: %w", err)
	}
	inbound, err := a.finder.FindInbound(pivot, corpus, opportunity.Options{
		MinRelevance: a.params.MinRelevance,
		MaxResults:   a.params.MaxResults,
		MaxPerSilo:   a.params.MaxPerSiloInbound,
	})
	if err != nil {
		return nil, fmt.Errorf("inbound search: %w", err)
	}

	report := &domain.Report{
		Pivot:    pivot,
		Outbound: outbound,
		Inbound:  inbound,
		Stats:    corpusStats(corpus),
	}
	a.log.Info("analysis complete",
		zap.Int("outbound", len(outbound)),
		zap.Int("inbound", len(inbound)))
	return report, nil
}

func corpusStats(corpus []domain.ContentRecord) domain.CorpusStats {
	tags := make(map[string]struct{})
	silos := make(map[string]struct{})
	words := 0
	for _, rec := range corpus {
		for _, t := range rec.Tags {
			tags[t] = struct{}{}
		}
		silos[rec.Silo] = struct{}{}
		words += rec.WordCount
	}
	return domain.CorpusStats{
		Pages:      len(corpus),
		UniqueTags: len(tags),
		TotalWords: words,
		Silos:      len(silos),
	}
}

func contains(urls []string, u string) bool {
	for _, candidate := range urls {
		if candidate == u {
			return true
		}
	}
	return false
}
