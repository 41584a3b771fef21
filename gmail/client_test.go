package gmail

import (
	"encoding/base64"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func TestParseHeaderDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{
			name:  "rfc1123z",
			value: "Sun, 10 Mar 2024 14:05:09 +0000",
			want:  time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "single digit day",
			value: "Tue, 5 Mar 2024 09:00:00 -0500",
			want:  time.Date(2024, 3, 5, 9, 0, 0, 0, time.FixedZone("", -5*3600)),
			ok:    true,
		},
		{
			name:  "trailing zone name in parentheses",
			value: "Sun, 10 Mar 2024 14:05:09 +0000 (UTC)",
			want:  time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "no weekday",
			value: "10 Mar 2024 14:05:09 +0000",
			want:  time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "garbage",
			value: "not a date at all",
			ok:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseHeaderDate(tc.value)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	body := base64.URLEncoding.EncodeToString([]byte("Invoice total: $1,250.00"))
	msg := &gmailapi.Message{
		Id:           "msg-1",
		ThreadId:     "thr-1",
		Snippet:      "Invoice total",
		LabelIds:     []string{"INBOX"},
		InternalDate: 1710079509000,
		Payload: &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Subject", Value: "Invoice #42"},
				{Name: "From", Value: "Vendor <vendor@company.com>"},
				{Name: "To", Value: "me@example.com"},
				{Name: "Date", Value: "Sun, 10 Mar 2024 14:05:09 +0000"},
			},
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: body},
				},
				{
					MimeType: "application/pdf",
					Filename: "invoice.pdf",
				},
			},
		},
	}

	got := parseMessage(msg, log.New(io.Discard))

	assert.Equal(t, "msg-1", got.ID)
	assert.Equal(t, "thr-1", got.ThreadID)
	assert.Equal(t, "Invoice #42", got.Subject)
	assert.Equal(t, "Vendor <vendor@company.com>", got.From)
	assert.Equal(t, "me@example.com", got.To)
	assert.True(t, got.Date.Equal(time.Date(2024, 3, 10, 14, 5, 9, 0, time.UTC)))
	assert.Equal(t, "Invoice total: $1,250.00", got.Body)
	assert.True(t, got.HasAttachment)
	assert.Equal(t, []string{"INBOX"}, got.Labels)
}

func TestParseMessageFallsBackToInternalDate(t *testing.T) {
	msg := &gmailapi.Message{
		Id:           "msg-2",
		InternalDate: 1710079509000,
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Date", Value: "not a date"},
			},
		},
	}

	got := parseMessage(msg, log.New(io.Discard))
	assert.True(t, got.Date.Equal(time.UnixMilli(1710079509000)))
}

func TestMessageBodyPrefersPlainText(t *testing.T) {
	plain := base64.URLEncoding.EncodeToString([]byte("plain body"))
	html := base64.URLEncoding.EncodeToString([]byte("<p>html body</p>"))
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: html}},
			{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: plain}},
		},
	}

	assert.Equal(t, "plain body", messageBody(payload))
}

func TestMessageBodyFallsBackToHTML(t *testing.T) {
	html := base64.URLEncoding.EncodeToString([]byte("<p>Amount due: <b>$1,250.00</b></p>"))
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: html}},
		},
	}

	assert.Contains(t, messageBody(payload), "$1,250.00")
	assert.NotContains(t, messageBody(payload), "<b>")
}

func TestHasAttachmentNested(t *testing.T) {
	payload := &gmailapi.MessagePart{
		Parts: []*gmailapi.MessagePart{
			{MimeType: "multipart/mixed", Parts: []*gmailapi.MessagePart{
				{MimeType: "image/png", Filename: "chart.png"},
			}},
		},
	}
	assert.True(t, hasAttachment(payload))
	assert.False(t, hasAttachment(&gmailapi.MessagePart{}))
}
