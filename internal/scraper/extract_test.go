package scraper_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkscout/internal/scraper"
)

const testPageURL = "https://example.com/gardening/tomato-care"

// fullArticleHTML carries every feature the extractor looks for.
const fullArticleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Tomato Care Guide">
  <meta name="description" content="Everything about tomato care.">
  <meta name="keywords" content="Gardening, Tomatoes">
  <meta property="article:published_time" content="2024-03-05T10:00:00Z">
  <script type="application/ld+json">{"@type":"Article","keywords":["Vegetables","gardening"]}</script>
</head>
<body>
  <nav>Navigation links</nav>
  <article>
    <h1>Tomato Care Guide</h1>
    <h2>Watering</h2>
    <p>Water deeply once a week for strong roots.</p>
    <a class="post-tag" href="/tag/soil">Soil</a>
    <script>var hidden = "should not appear";</script>
  </article>
</body>
</html>`

// ogTitleMissingHTML falls back to the <title> element.
const ogTitleMissingHTML = `<!DOCTYPE html>
<html>
<head><title>Plain Title</title></head>
<body><p>Body text.</p></body>
</html>`

func TestExtractFullArticle(t *testing.T) {
	t.Parallel()

	rec := scraper.Extract(testPageURL, []byte(fullArticleHTML))

	assert.Equal(t, testPageURL, rec.URL)
	assert.Equal(t, "Tomato Care Guide", rec.Title)
	assert.Equal(t, "Everything about tomato care.", rec.Description)
	assert.Equal(t, "gardening", rec.Silo)

	// meta keywords + JSON-LD keywords + tag anchor, lowercased and
	// deduplicated.
	assert.Equal(t, []string{"gardening", "soil", "tomatoes", "vegetables"}, rec.Tags)

	require.Len(t, rec.Headings, 2)
	assert.Equal(t, "Tomato Care Guide", rec.Headings[0])
	assert.Equal(t, "Watering", rec.Headings[1])
	assert.Equal(t, 2, rec.HeadingCount)

	assert.Contains(t, rec.BodyText, "Water deeply once a week")
	assert.NotContains(t, rec.BodyText, "should not appear")
	assert.NotContains(t, rec.BodyText, "Navigation links", "article content preferred over body")
	assert.Equal(t, len(strings.Fields(rec.BodyText)), rec.WordCount)

	require.NotNil(t, rec.PublishDate)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), rec.PublishDate.UTC())
}

func TestExtractTitleFallback(t *testing.T) {
	t.Parallel()

	rec := scraper.Extract(testPageURL, []byte(ogTitleMissingHTML))
	assert.Equal(t, "Plain Title", rec.Title)
	assert.Nil(t, rec.PublishDate)
	assert.Empty(t, rec.Tags)
}

func TestExtractTimeElementDate(t *testing.T) {
	t.Parallel()

	html := `<html><body><time datetime="2023-11-20T08:30:00Z">Nov 20</time></body></html>`
	rec := scraper.Extract(testPageURL, []byte(html))
	require.NotNil(t, rec.PublishDate)
	assert.Equal(t, 2023, rec.PublishDate.UTC().Year())
}

func TestExtractBodyTruncation(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body><main>")
	for i := 0; i < 1100; i++ {
		fmt.Fprintf(&b, "word%d ", i)
	}
	b.WriteString("</main></body></html>")

	rec := scraper.Extract(testPageURL, []byte(b.String()))
	assert.Equal(t, 1000, rec.WordCount)
}

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	rec := scraper.Extract(testPageURL, nil)
	assert.Equal(t, testPageURL, rec.URL)
	assert.Equal(t, "gardening", rec.Silo)
	assert.Zero(t, rec.WordCount)
}

func TestEmptyRecordKeepsSilo(t *testing.T) {
	t.Parallel()

	rec := scraper.EmptyRecord("https://example.com/recipes/soup")
	assert.Equal(t, "recipes", rec.Silo)
	assert.Empty(t, rec.Title)
	assert.Nil(t, rec.PublishDate)
}
