package gmail

import "time"

// Message holds everything this tool needs from one Gmail message.
type Message struct {
	ID            string
	ThreadID      string
	From          string
	To            string
	Cc            string
	Date          time.Time
	Subject       string
	Snippet       string
	Body          string // plain text body
	Labels        []string
	HasAttachment bool
	InternalDate  int64 // epoch milliseconds, for sorting and date fallback
}
