package scraper

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var locRe = regexp.MustCompile(`<loc>(https?://[^<]+)</loc>`)

// FetchSitemap downloads a sitemap.xml and returns its URLs.
func (c *Collector) FetchSitemap(sitemapURL string) ([]string, error) {
	resp, err := c.client.Get(sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch sitemap: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}
	return ParseSitemap(data)
}

// ParseSitemap collects every <loc> entry in the document, regardless of
// nesting, so both urlset and sitemapindex documents work. Malformed XML
// falls back to a pattern scan before giving up.
func ParseSitemap(data []byte) ([]string, error) {
	urls, err := locEntries(data)
	if err != nil || len(urls) == 0 {
		if recovered := recoverLocs(data); len(recovered) > 0 {
			return recovered, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse sitemap: %w", err)
		}
	}
	return urls, nil
}

func locEntries(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var urls []string
	inLoc := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return urls, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inLoc = t.Name.Local == "loc"
		case xml.EndElement:
			inLoc = false
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					urls = append(urls, loc)
				}
			}
		}
	}
	return urls, nil
}

func recoverLocs(data []byte) []string {
	matches := locRe.FindAllSubmatch(data, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, string(m[1]))
	}
	return urls
}
