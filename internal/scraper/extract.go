package scraper

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"linkscout/internal/domain"
)

const (
	// maxBodyTokens truncates the extracted body text.
	maxBodyTokens = 1000
	// maxTagLength filters out anchor text too long to be a tag.
	maxTagLength = 50
)

var reWhitespace = regexp.MustCompile(`\s+`)

// nonContentSelectors lists elements stripped before body extraction.
const nonContentSelectors = "script, style"

// Extract parses an HTML page into a ContentRecord. Parse failures
// return an empty record carrying only the silo; a bad page degrades
// its own scores but never the run.
func Extract(pageURL string, body []byte) domain.ContentRecord {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return EmptyRecord(pageURL)
	}

	rec := domain.ContentRecord{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Tags:        extractTags(doc),
		Headings:    extractHeadings(doc),
		PublishDate: extractPublishDate(doc),
		Silo:        domain.SiloFromURL(pageURL),
	}
	rec.HeadingCount = len(rec.Headings)

	// Body extraction strips script and style nodes from the document,
	// so it has to run after the JSON-LD tag scan.
	rec.BodyText = extractBodyText(doc)
	rec.WordCount = len(strings.Fields(rec.BodyText))
	return rec
}

// EmptyRecord is the partial-failure placeholder for an unreachable or
// unparseable page.
func EmptyRecord(pageURL string) domain.ContentRecord {
	return domain.ContentRecord{
		URL:  pageURL,
		Silo: domain.SiloFromURL(pageURL),
	}
}

// extractTitle prefers the og:title meta tag, then the <title> element.
func extractTitle(doc *goquery.Document) string {
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		return strings.TrimSpace(desc)
	}
	return ""
}

// extractTags merges meta keywords, schema.org JSON-LD keywords and
// tag-styled anchor text into one lowercase deduplicated set.
func extractTags(doc *goquery.Document) []string {
	var raw []string

	if keywords, exists := doc.Find("meta[name='keywords']").Attr("content"); exists {
		raw = append(raw, strings.Split(keywords, ",")...)
	}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		switch keywords := data["keywords"].(type) {
		case string:
			raw = append(raw, strings.Split(keywords, ",")...)
		case []any:
			for _, k := range keywords {
				if str, ok := k.(string); ok {
					raw = append(raw, str)
				}
			}
		}
	})

	doc.Find("a[class*='tag'], a[class*='label']").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && len(text) < maxTagLength {
			raw = append(raw, text)
		}
	})

	seen := make(map[string]struct{}, len(raw))
	var tags []string
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func extractHeadings(doc *goquery.Document) []string {
	var headings []string
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	return headings
}

// extractBodyText pulls text from the main content container when one
// exists, falling back to the whole document, and truncates to the
// first maxBodyTokens whitespace-delimited tokens.
func extractBodyText(doc *goquery.Document) string {
	doc.Find(nonContentSelectors).Remove()

	var text string
	for _, selector := range []string{"main", "article", "div[class*='content']", "div[class*='post']", "div[class*='article']"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			text = sel.Text()
			break
		}
	}
	if text == "" {
		text = doc.Find("body").Text()
	}

	tokens := strings.Fields(reWhitespace.ReplaceAllString(text, " "))
	if len(tokens) > maxBodyTokens {
		tokens = tokens[:maxBodyTokens]
	}
	return strings.Join(tokens, " ")
}

func extractPublishDate(doc *goquery.Document) *time.Time {
	dateStr, exists := doc.Find("meta[property='article:published_time']").Attr("content")
	if !exists || strings.TrimSpace(dateStr) == "" {
		dateStr, _ = doc.Find("time[datetime]").Attr("datetime")
	}
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(dateStr)
	if err != nil {
		return nil
	}
	return &parsed
}
