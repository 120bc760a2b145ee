package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"linkscout/internal/domain"
)

// Model is the Bubble Tea model for browsing an analysis report.
type Model struct {
	report   *domain.Report
	summary  string
	viewport viewport.Model
	inbound  bool
	cursor   int
	ready    bool
	status   string
}

// New creates a TUI model over a finished analysis report.
func New(report *domain.Report, summary string) Model {
	vp := viewport.New(0, 0)
	return Model{
		report:   report,
		summary:  summary,
		viewport: vp,
		status:   "tab: outbound/inbound • ↑/↓: move • q: quit",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for the frame around the result box
		_, rh := resultBoxStyle.GetFrameSize()
		totalHeaderLines := 3 // header + pivot + summary
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderList())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "tab":
			m.inbound = !m.inbound
			m.cursor = 0
			m.viewport.SetContent(m.renderList())
			return m, nil
		case "down", "j":
			if n := len(m.current()); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderList())
			}
			return m, nil
		case "up", "k":
			if n := len(m.current()); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderList())
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	direction := "Outbound Linking Opportunities"
	if m.inbound {
		direction = "Inbound Linking Opportunities"
	}
	header := headerStyle.Render("linkscout — " + direction)
	pivot := pivotStyle.Render(fmt.Sprintf("pivot: %s  silo: %s  words: %d",
		m.report.Pivot.URL, m.report.Pivot.Silo, m.report.Pivot.WordCount))
	summary := summaryStyle.Render(m.summary)
	results := resultBoxStyle.Render(m.viewport.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + pivot + "\n" + summary + "\n" + results + "\n" + status
}

func (m Model) current() []domain.Opportunity {
	if m.inbound {
		return m.report.Inbound
	}
	return m.report.Outbound
}

func (m Model) renderList() string {
	opps := m.current()
	if len(opps) == 0 {
		return "No opportunities found. Try lowering the relevance threshold."
	}
	var b strings.Builder
	for i, opp := range opps {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%2d. %s  [%s]  %s", marker, i+1, matchBand(opp.FinalScore),
			opp.Silo, opp.Title)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(m.renderBreakdown(opp))
		}
	}
	return b.String()
}

func (m Model) renderBreakdown(opp domain.Opportunity) string {
	var b strings.Builder
	b.WriteString(detailStyle.Render(fmt.Sprintf("    %s", opp.URL)))
	b.WriteString("\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf(
		"    overall %.1f%% • content %.1f%% • tags %.1f%% • path %.1f%% • depth %.1f%% • temporal %.1f%% • diversity %.1f%%",
		opp.FinalScore, opp.ContentScore, opp.TagScore, opp.PathScore,
		opp.DepthScore, opp.TemporalScore, opp.DiversityScore)))
	b.WriteString("\n")
	if len(opp.CommonTags) > 0 {
		b.WriteString(detailStyle.Render("    common tags: " + strings.Join(opp.CommonTags, ", ")))
		b.WriteString("\n")
	}
	if opp.DiversityPenalty {
		b.WriteString(penaltyStyle.Render("    diversity penalty applied (silo over-representation)"))
		b.WriteString("\n")
	}
	return b.String()
}

// matchBand renders the score with the band label used in the report
// tables: strong at 70, good at 40, fair below.
func matchBand(score float64) string {
	label := fmt.Sprintf("%.1f%%", score)
	switch {
	case score >= 70:
		return scoreHighStyle.Render(label + " strong")
	case score >= 40:
		return scoreMediumStyle.Render(label + " good")
	default:
		return scoreLowStyle.Render(label + " fair")
	}
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	pivotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	summaryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	resultBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle    = lipgloss.NewStyle().Bold(true)
	detailStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	penaltyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	scoreHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	scoreMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	scoreLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)
