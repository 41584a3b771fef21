package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/config"
	"github.com/mailsift/mailsift/filter"
	"github.com/mailsift/mailsift/gmail"
)

type fakeSearcher struct {
	gotCtx   context.Context
	gotQuery string
	gotMax   int64
	msgs     []gmail.Message
	err      error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error) {
	f.gotCtx = ctx
	f.gotQuery = query
	f.gotMax = maxResults
	return f.msgs, f.err
}

func testConfig(t *testing.T) *config.Manager {
	t.Helper()
	m, err := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, m.SetExportDir(filepath.Join(t.TempDir(), "exports")))
	return m
}

func fixedNow() time.Time {
	return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
}

func typeRequest(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func TestSubmitRequestCompilesQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	m := NewModel(context.Background(), searcher, testConfig(t), log.New(io.Discard), fixedNow)

	m = typeRequest(t, m, "invoices from vendor@company.com over $1000 in the last 30 days")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.Contains(t, m.query,
		"from:vendor@company.com subject:invoice after:2024/03/02 before:2024/04/01")

	// Running the command performs the search.
	msg := cmd()
	_, ok := msg.(SearchDoneMsg)
	require.True(t, ok)
	assert.Equal(t, m.query, searcher.gotQuery)
	assert.Equal(t, int64(100), searcher.gotMax)
}

func TestSubmitRequestParseErrorStaysOnPrompt(t *testing.T) {
	m := NewModel(context.Background(), &fakeSearcher{}, testConfig(t), log.New(io.Discard), fixedNow)
	m = typeRequest(t, m, "emails between $500 and $100")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.True(t, m.statusIsError)
}

func TestSearchResultsFilteredByAmount(t *testing.T) {
	msgs := []gmail.Message{
		{ID: "big", Subject: "Invoice", Snippet: "Please pay $1,250.00 by Friday"},
		{ID: "small", Subject: "Invoice", Snippet: "Please pay $50.00 by Friday"},
	}
	searcher := &fakeSearcher{msgs: msgs}
	m := NewModel(context.Background(), searcher, testConfig(t), log.New(io.Discard), fixedNow)

	m = typeRequest(t, m, "invoices over $1000")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(Model)

	require.Len(t, m.results, 1)
	assert.Equal(t, "big", m.results[0].msg.ID)
	assert.Equal(t, "1250.00 USD", m.results[0].rec.DetectedAmounts)
}

func TestExportWritesFile(t *testing.T) {
	searcher := &fakeSearcher{msgs: []gmail.Message{
		{ID: "m1", Subject: "Receipt", Snippet: "charged $10.00"},
	}}
	cfg := testConfig(t)
	m := NewModel(context.Background(), searcher, cfg, log.New(io.Discard), fixedNow)

	m = typeRequest(t, m, "receipts")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	require.Len(t, m.results, 1)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	exported, ok := msg.(ExportedMsg)
	require.True(t, ok, "export command failed: %v", msg)
	assert.Equal(t, 1, exported.Count)

	_, err := os.Stat(exported.Path)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Get().ExportDir, "filtered_emails_20240401_120000.csv"), exported.Path)

	next, _ = m.Update(msg)
	m = next.(Model)
	assert.Contains(t, m.statusText, "Exported 1 rows")
}

func TestSearchCommandCarriesSessionContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := &fakeSearcher{}
	m := NewModel(ctx, searcher, testConfig(t), log.New(io.Discard), fixedNow)

	m = typeRequest(t, m, "anything recent")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	cancel()
	cmd()
	require.NotNil(t, searcher.gotCtx)
	assert.ErrorIs(t, searcher.gotCtx.Err(), context.Canceled,
		"shutdown must reach an in-flight search")
}

func TestSearchErrorReturnsToPrompt(t *testing.T) {
	searcher := &fakeSearcher{err: assert.AnError}
	m := NewModel(context.Background(), searcher, testConfig(t), log.New(io.Discard), fixedNow)

	m = typeRequest(t, m, "anything recent")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.True(t, m.statusIsError)
}

func TestCriteriaRange(t *testing.T) {
	assert.Nil(t, criteriaRange(nil))
	assert.Nil(t, criteriaRange(&filter.Criteria{}))

	crit, err := filter.ParseRequest("payments over $100", fixedNow())
	require.NoError(t, err)
	r := criteriaRange(crit)
	require.NotNil(t, r)
	require.NotNil(t, r.Min)
	assert.Equal(t, "USD", r.Currency)
	assert.Nil(t, r.Max)
}
