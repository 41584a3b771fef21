// Package session drives the interactive request, search, and export
// loop in the terminal.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mailsift/mailsift/amounts"
	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/export"
	"github.com/mailsift/mailsift/filter"
	"github.com/mailsift/mailsift/gmail"
)

// Searcher is the retrieval collaborator: it accepts a compiled query
// string and returns raw message records.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error)
}

type viewState int

const (
	viewPrompt viewState = iota
	viewSearching
	viewResults
)

// result pairs a retrieved message with its amount outcome and the
// row it would export as.
type result struct {
	msg     gmail.Message
	outcome amounts.Outcome
	rec     export.Record
}

type Model struct {
	ctx      context.Context
	searcher Searcher
	cfg      *config.Manager
	logger   *log.Logger
	now      func() time.Time

	currentView viewState
	input       string
	criteria    *filter.Criteria
	query       string
	results     []result
	selectedIdx int
	viewportTop int

	statusText    string
	statusIsError bool
	width, height int
}

// NewModel builds the initial session model. The context cancels
// in-flight searches on shutdown; the clock is injected so tests can
// pin "now" for date resolution and export filenames.
func NewModel(ctx context.Context, searcher Searcher, cfg *config.Manager, logger *log.Logger, now func() time.Time) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if now == nil {
		now = time.Now
	}
	return Model{
		ctx:        ctx,
		searcher:   searcher,
		cfg:        cfg,
		logger:     logger,
		now:        now,
		statusText: "Describe the emails you want to find.",
	}
}

// Run starts the interactive loop and blocks until the user quits.
func Run(ctx context.Context, searcher Searcher, cfg *config.Manager, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(ctx, searcher, cfg, logger, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.currentView {
		case viewPrompt:
			return m.updatePrompt(msg)
		case viewResults:
			return m.updateResults(msg)
		}

	case SearchDoneMsg:
		m.results = buildResults(msg.Messages, m.criteria)
		m.selectedIdx, m.viewportTop = 0, 0
		m.currentView = viewResults
		m.statusText = fmt.Sprintf("%d of %d retrieved messages match. [e]:Export [esc]:New search [q]:Quit",
			len(m.results), len(msg.Messages))
		m.statusIsError = false

	case ExportedMsg:
		m.statusText = fmt.Sprintf("Exported %d rows to %s", msg.Count, msg.Path)
		m.statusIsError = false

	case ErrorMsg:
		m.currentView = viewPrompt
		m.statusText = "Error: " + msg.Err.Error()
		m.statusIsError = true
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitRequest()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m Model) submitRequest() (tea.Model, tea.Cmd) {
	req := strings.TrimSpace(m.input)
	if req == "" {
		return m, nil
	}

	crit, err := filter.ParseRequest(req, m.now())
	if err != nil {
		m.statusText = "Error: " + err.Error()
		m.statusIsError = true
		return m, nil
	}
	m.criteria = crit
	m.query = filter.Compile(crit)
	m.currentView = viewSearching
	m.statusText = "Searching: " + m.query
	m.statusIsError = false
	m.logger.Info("request parsed", "query", m.query)

	return m, searchCmd(m.ctx, m.searcher, m.query, m.cfg.Get().MaxResults)
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.currentView = viewPrompt
		m.input = ""
		m.statusText = "Describe the emails you want to find."
		m.statusIsError = false
	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.ensureSelectedVisible()
		}
	case "down", "j":
		if m.selectedIdx < len(m.results)-1 {
			m.selectedIdx++
			m.ensureSelectedVisible()
		}
	case "e":
		if len(m.results) == 0 {
			m.statusText = "Nothing to export."
			return m, nil
		}
		rows := make([]export.Record, len(m.results))
		for i, r := range m.results {
			rows[i] = r.rec
		}
		m.statusText = "Exporting..."
		return m, exportCmd(rows, m.cfg.Get().ExportDir, m.now())
	}
	return m, nil
}

// buildResults runs the client-side half of the pipeline: amount
// extraction, range filtering, and row normalization per message.
// Messages are independent; arrival order is preserved.
func buildResults(msgs []gmail.Message, crit *filter.Criteria) []result {
	rng := criteriaRange(crit)
	var out []result
	for _, msg := range msgs {
		outcome := amounts.Apply(export.ExtractAmounts(msg), rng)
		rec, ok := export.Normalize(msg, outcome, crit)
		if !ok {
			continue
		}
		out = append(out, result{msg: msg, outcome: outcome, rec: rec})
	}
	return out
}

func criteriaRange(c *filter.Criteria) *amounts.Range {
	if c == nil || !c.HasAmount() {
		return nil
	}
	r := &amounts.Range{Min: c.AmountMin, Max: c.AmountMax}
	if c.AmountCurrency != nil {
		r.Currency = *c.AmountCurrency
	}
	return r
}

func (m *Model) ensureSelectedVisible() {
	visible := m.listCapacity()
	if visible <= 0 {
		m.viewportTop = m.selectedIdx
		return
	}
	if m.selectedIdx < m.viewportTop {
		m.viewportTop = m.selectedIdx
	} else if m.selectedIdx >= m.viewportTop+visible {
		m.viewportTop = m.selectedIdx - visible + 1
	}
}

// listCapacity is how many result lines fit above the preview pane
// and status bar.
func (m Model) listCapacity() int {
	n := m.height - previewHeight - 3
	if n < 1 {
		n = 1
	}
	return n
}

const previewHeight = 9

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}

	var body string
	switch m.currentView {
	case viewPrompt:
		body = m.renderPrompt()
	case viewSearching:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center,
			"Searching Gmail...\n\n"+QueryStyle.Render(m.query))
	case viewResults:
		body = m.renderResults()
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar()))
}

func (m Model) renderPrompt() string {
	title := TitleStyle.Render("mailsift")
	prompt := PromptStyle.Render("> ") + InputStyle.Render(m.input) + InputStyle.Render("█")
	hint := HintStyle.Render("e.g. \"invoices from vendor@company.com over $1000 in the last 30 days\"\n" +
		"[Enter]:Search  [Ctrl+C]:Quit")

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", prompt, "", hint)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Left, lipgloss.Center,
		lipgloss.NewStyle().PaddingLeft(2).Render(content))
}

func (m Model) renderResults() string {
	listHeight := m.listCapacity()

	var lines []string
	end := m.viewportTop + listHeight
	if end > len(m.results) {
		end = len(m.results)
	}
	for i := m.viewportTop; i < end; i++ {
		lines = append(lines, m.renderResultLine(i))
	}
	if len(m.results) == 0 {
		lines = append(lines, HintStyle.Render(" No matching messages."))
	}
	list := strings.Join(lines, "\n")
	listPane := lipgloss.NewStyle().Width(m.width).Height(listHeight).Render(list)

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Results: "+truncate(m.query, m.width-15)),
		listPane,
		m.renderPreview(),
	)
}

func (m Model) renderResultLine(i int) string {
	r := m.results[i]
	subject := r.msg.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	line := fmt.Sprintf("%s  %s  %s",
		formatListDate(r.msg.Date), truncate(senderName(r.msg.From), 24), subject)
	if amt := export.FormatAmounts(r.outcome.Detected); amt != "" {
		line += "  " + AmountStyle.Render("["+amt+"]")
	}
	line = truncate(line, m.width-4)
	if i == m.selectedIdx {
		return SelectedItemStyle.Render(line)
	}
	return NormalItemStyle.Render(line)
}

func (m Model) renderPreview() string {
	if len(m.results) == 0 || m.selectedIdx >= len(m.results) {
		return ContentBoxStyle.Width(m.width - 2).Height(previewHeight - 2).Render("")
	}
	r := m.results[m.selectedIdx]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(r.msg.From))
	fmt.Fprintf(&b, "%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(r.rec.Date))
	fmt.Fprintf(&b, "%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(r.msg.Subject))
	if r.rec.DetectedAmounts != "" {
		fmt.Fprintf(&b, "%s %s\n", HeaderKeyStyle.Render("Amounts:"), AmountStyle.Render(r.rec.DetectedAmounts))
	}
	fmt.Fprintf(&b, "\n%s", truncate(strings.ReplaceAll(r.msg.Snippet, "\n", " "), (m.width-6)*2))

	return ContentBoxStyle.Width(m.width - 2).Height(previewHeight - 2).Render(b.String())
}

func (m Model) renderStatusBar() string {
	style := StatusBarNormalStyle
	if m.statusIsError {
		style = StatusBarErrorStyle
	} else if strings.HasPrefix(m.statusText, "Exported") {
		style = StatusBarSuccessStyle
	}
	return style.Width(m.width).Render(truncate(m.statusText, m.width))
}
