// Package export turns matched messages into column-stable CSV rows.
package export

import (
	"strings"
	"time"

	"github.com/mailsift/mailsift/amounts"
	"github.com/mailsift/mailsift/filter"
	"github.com/mailsift/mailsift/gmail"
)

// timestampFormat is the locale-independent layout used for the Date
// column.
const timestampFormat = "2006-01-02 15:04:05"

// Record is one export row. Every field is already rendered as a
// string; absent data is an empty string, never a missing column, so
// the CSV column set is stable regardless of content.
type Record struct {
	ID              string
	Date            string
	From            string
	To              string
	Subject         string
	Snippet         string
	Labels          string
	HasAttachments  string
	DetectedAmounts string
}

// Columns is the fixed header, in output order.
func Columns() []string {
	return []string{
		"ID", "Date", "From", "To", "Subject", "Snippet",
		"Labels", "Has_Attachments", "Detected_Amounts",
	}
}

// Row renders the record in column order.
func (r Record) Row() []string {
	return []string{
		r.ID, r.Date, r.From, r.To, r.Subject, r.Snippet,
		r.Labels, r.HasAttachments, r.DetectedAmounts,
	}
}

// ExtractAmounts collects every amount candidate from a message's
// subject, snippet and body, deduplicated by value and currency in
// order of first occurrence.
func ExtractAmounts(m gmail.Message) []amounts.Candidate {
	var all []amounts.Candidate
	seen := map[string]bool{}
	for _, text := range []string{m.Subject, m.Snippet, m.Body} {
		for _, c := range amounts.ScanAll(text) {
			key := c.Value.String() + " " + c.Currency
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, c)
		}
	}
	return all
}

// Normalize combines one message with its amount-filter outcome into
// an export record. The boolean is false when the message fails a
// criterion the query could not express server-side: the amount range,
// or an attachment constraint beyond what has:attachment narrowed.
func Normalize(m gmail.Message, outcome amounts.Outcome, crit *filter.Criteria) (Record, bool) {
	if crit != nil {
		if crit.HasAmount() && !outcome.Matched {
			return Record{}, false
		}
		if crit.Attachment == filter.AttachmentRequired && !m.HasAttachment {
			return Record{}, false
		}
		if crit.Attachment == filter.AttachmentNone && m.HasAttachment {
			return Record{}, false
		}
	}

	return Record{
		ID:              m.ID,
		Date:            formatDate(m),
		From:            m.From,
		To:              m.To,
		Subject:         m.Subject,
		Snippet:         m.Snippet,
		Labels:          strings.Join(m.Labels, ", "),
		HasAttachments:  yesNo(m.HasAttachment),
		DetectedAmounts: FormatAmounts(outcome.Detected),
	}, true
}

// FormatAmounts renders candidates as a semicolon-joined list of
// "value CODE" pairs with exactly two fractional digits.
func FormatAmounts(cands []amounts.Candidate) string {
	if len(cands) == 0 {
		return ""
	}
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.Value.StringFixed(2) + " " + c.Currency
	}
	return strings.Join(parts, "; ")
}

func formatDate(m gmail.Message) string {
	if !m.Date.IsZero() {
		return m.Date.Format(timestampFormat)
	}
	if m.InternalDate > 0 {
		return time.UnixMilli(m.InternalDate).Format(timestampFormat)
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
