package session

import "github.com/mailsift/mailsift/gmail"

// SearchDoneMsg carries the messages a search returned.
type SearchDoneMsg struct {
	Messages []gmail.Message
}

// ExportedMsg signals a finished CSV export.
type ExportedMsg struct {
	Path  string
	Count int
}

// ErrorMsg wraps an error from a command.
type ErrorMsg struct{ Err error }

func (e ErrorMsg) Error() string { return e.Err.Error() }
