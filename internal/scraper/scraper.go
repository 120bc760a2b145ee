package scraper

import (
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"linkscout/internal/domain"
)

const (
	// DefaultTimeoutSecs is the per-page fetch budget.
	DefaultTimeoutSecs = 5
	// MaxTimeoutSecs caps the configurable fetch budget.
	MaxTimeoutSecs = 15

	defaultParallelism = 4
	defaultUserAgent   = "linkscout/1.0 (+internal link analyzer)"
)

// Config tunes the page fetcher.
type Config struct {
	TimeoutSecs int
	Parallelism int
	DelayMS     int
	UserAgent   string
}

func (c Config) withDefaults() Config {
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	if c.TimeoutSecs > MaxTimeoutSecs {
		c.TimeoutSecs = MaxTimeoutSecs
	}
	if c.Parallelism <= 0 {
		c.Parallelism = defaultParallelism
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Collector fetches sitemaps and pages and turns pages into
// ContentRecords. It implements domain.Fetcher.
type Collector struct {
	cfg    Config
	log    *zap.Logger
	client *http.Client
}

// NewCollector creates a collector with the given settings.
func NewCollector(cfg Config, log *zap.Logger) *Collector {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}
}

// FetchPages downloads every URL concurrently and returns one record
// per URL. Unreachable pages yield empty records so a dead link never
// aborts the analysis.
func (c *Collector) FetchPages(urls []string) map[string]domain.ContentRecord {
	records := make(map[string]domain.ContentRecord, len(urls))
	for _, u := range urls {
		records[u] = EmptyRecord(u)
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(c.cfg.UserAgent),
	)
	collector.IgnoreRobotsTxt = false
	collector.SetRequestTimeout(time.Duration(c.cfg.TimeoutSecs) * time.Second)
	_ = collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.cfg.Parallelism,
		Delay:       time.Duration(c.cfg.DelayMS) * time.Millisecond,
	})

	var mu sync.Mutex
	collector.OnResponse(func(r *colly.Response) {
		pageURL := r.Request.URL.String()
		rec := Extract(pageURL, r.Body)
		mu.Lock()
		records[pageURL] = rec
		mu.Unlock()
		c.log.Debug("fetched page",
			zap.String("url", pageURL),
			zap.Int("words", rec.WordCount),
			zap.Int("tags", len(rec.Tags)))
	})
	collector.OnError(func(r *colly.Response, err error) {
		c.log.Warn("page fetch failed",
			zap.String("url", r.Request.URL.String()),
			zap.Error(err))
	})

	for _, u := range urls {
		if err := collector.Visit(u); err != nil {
			c.log.Warn("visit rejected", zap.String("url", u), zap.Error(err))
		}
	}
	collector.Wait()
	return records
}
