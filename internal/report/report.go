package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"linkscout/internal/domain"
)

const (
	titlePreviewLength = 60
	commonTagsShown    = 3
)

// Summary is the one-line corpus digest shown above result tables and
// in the TUI header.
func Summary(stats domain.CorpusStats) string {
	return fmt.Sprintf("%d pages • %d unique tags • %d words • %d silos",
		stats.Pages, stats.UniqueTags, stats.TotalWords, stats.Silos)
}

// RenderTable writes one opportunity list as a bordered table.
func RenderTable(w io.Writer, heading string, opps []domain.Opportunity) {
	fmt.Fprintf(w, "\n%s\n", heading)
	t := configureTable(w)
	appendRows(t, opps)
	t.Render()
}

// WriteCSV writes one opportunity list in CSV form.
func WriteCSV(w io.Writer, opps []domain.Opportunity) {
	t := configureTable(w)
	appendRows(t, opps)
	t.RenderCSV()
}

// CSVFileName follows the export naming scheme, e.g.
// outbound_opportunities_20260825.csv.
func CSVFileName(direction string, now time.Time) string {
	return fmt.Sprintf("%s_opportunities_%s.csv", direction, now.Format("20060102"))
}

func configureTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titlePreviewLength},
		{Number: 9, WidthMax: 60},
	})
	t.AppendHeader(table.Row{"#", "Title", "Silo", "Score", "Content", "Tags", "Words", "Common Tags", "URL"})
	return t
}

func appendRows(t table.Writer, opps []domain.Opportunity) {
	for i, opp := range opps {
		t.AppendRow(table.Row{
			i + 1,
			truncate(opp.Title, titlePreviewLength),
			opp.Silo,
			fmt.Sprintf("%.1f%%", opp.FinalScore),
			fmt.Sprintf("%.1f%%", opp.ContentScore),
			fmt.Sprintf("%.1f%%", opp.TagScore),
			wordsCell(opp.WordCount),
			tagsCell(opp.CommonTags),
			opp.URL,
		})
	}
	t.AppendFooter(table.Row{"Total", len(opps)})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func wordsCell(count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", count)
}

func tagsCell(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	if len(tags) > commonTagsShown {
		tags = tags[:commonTagsShown]
	}
	return strings.Join(tags, ", ")
}
