package domain

import (
	"net/url"
	"strings"
	"time"
)

// ContentRecord holds the features extracted from a single page.
// Records are built once by the scraper and read-only afterwards.
type ContentRecord struct {
	URL          string
	Title        string
	Description  string
	Tags         []string // lowercase, deduplicated
	Headings     []string
	BodyText     string
	WordCount    int
	HeadingCount int
	PublishDate  *time.Time
	Silo         string
}

// CombinedText concatenates title, description, headings and body for
// corpus indexing.
func (r ContentRecord) CombinedText() string {
	parts := make([]string, 0, 3+len(r.Headings))
	parts = append(parts, r.Title, r.Description)
	parts = append(parts, r.Headings...)
	parts = append(parts, r.BodyText)
	return strings.Join(parts, " ")
}

// SiloFromURL returns the first non-empty path segment of the URL,
// lowercased, or "root" when the path is empty.
func SiloFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "root"
	}
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			return strings.ToLower(part)
		}
	}
	return "root"
}

// URLPath returns the URL path without domain, trimmed of slashes.
func URLPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.Trim(parsed.Path, "/")
}

// Opportunity is a ranked link candidate with its full score breakdown.
// The only mutation after creation is the penalizer's score/flag update.
type Opportunity struct {
	URL              string
	Title            string
	FinalScore       float64
	TagScore         float64
	ContentScore     float64
	PathScore        float64
	DepthScore       float64
	TemporalScore    float64
	DiversityScore   float64
	CommonTags       []string
	Silo             string
	WordCount        int
	PublishDate      *time.Time
	DiversityPenalty bool
}

// CorpusStats summarizes the analyzed corpus for presentation.
type CorpusStats struct {
	Pages      int
	UniqueTags int
	TotalWords int
	Silos      int
}

// Report is the final result of one analysis run.
type Report struct {
	Pivot    ContentRecord
	Outbound []Opportunity
	Inbound  []Opportunity
	Stats    CorpusStats
}

// Fetcher supplies the URL list and page records for an analysis run.
// Implementations live outside the scoring core.
type Fetcher interface {
	FetchSitemap(sitemapURL string) ([]string, error)
	FetchPages(urls []string) map[string]ContentRecord
}
