package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mailsift/mailsift/export"
)

// searchCmd runs the query against the searcher off the UI loop. The
// context comes from the caller so shutdown cancels in-flight calls.
func searchCmd(ctx context.Context, s Searcher, query string, maxResults int64) tea.Cmd {
	return func() tea.Msg {
		msgs, err := s.Search(ctx, query, maxResults)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SearchDoneMsg{Messages: msgs}
	}
}

// exportCmd writes the current result rows to a CSV file.
func exportCmd(rows []export.Record, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteCSV(rows, dir, "", now)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ExportedMsg{Path: path, Count: len(rows)}
	}
}
