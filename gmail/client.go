// Package gmail retrieves messages matching a compiled search query.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jaytaylor/html2text"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user     = "me"
	pageSize = 100 // messages per list call; the API allows more but 100 keeps fetches snappy
)

// Client wraps the Gmail API with read-only access.
type Client struct {
	srv    *gmailapi.Service
	logger *log.Logger
}

// NewClient authenticates against Gmail and returns a ready client.
// Credentials come from credentialsFile; an obtained token is cached
// in tokenFile so the browser flow runs once.
func NewClient(ctx context.Context, credentialsFile, tokenFile string, logger *log.Logger) (*Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient, err := oauthClient(ctx, oauthConfig, tokenFile)
	if err != nil {
		return nil, err
	}
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv, logger: logger}, nil
}

func oauthClient(ctx context.Context, config *oauth2.Config, tokenFile string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = tokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// Search runs a compiled query and returns up to maxResults fully
// fetched messages, newest first as the API lists them. Messages that
// fail to fetch individually are logged and skipped rather than
// failing the whole search.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]Message, error) {
	c.logger.Info("searching", "query", query, "max", maxResults)

	var out []Message
	pageToken := ""
	for int64(len(out)) < maxResults {
		remaining := maxResults - int64(len(out))
		size := remaining
		if size > pageSize {
			size = pageSize
		}

		call := c.srv.Users.Messages.List(user).Q(query).MaxResults(size).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gmail search failed: %w", err)
		}
		if len(resp.Messages) == 0 {
			break
		}

		for _, m := range resp.Messages {
			full, err := c.srv.Users.Messages.Get(user, m.Id).Format("full").Context(ctx).Do()
			if err != nil {
				c.logger.Warn("could not fetch message", "id", m.Id, "err", err)
				continue
			}
			out = append(out, parseMessage(full, c.logger))
			if int64(len(out)) >= maxResults {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Info("search complete", "results", len(out))
	return out, nil
}

// headerDateFormats are tried in order when a Date header is not
// RFC1123Z. Real-world senders produce all of these.
var headerDateFormats = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC1123,
	time.RFC822,
}

func parseHeaderDate(value string) (time.Time, bool) {
	candidates := []string{value}
	// Strip a trailing parenthesized zone name, e.g. " (UTC)".
	if open := strings.LastIndex(value, " ("); open != -1 {
		if end := strings.LastIndex(value, ")"); end > open {
			candidates = append(candidates, strings.TrimSpace(value[:open]+value[end+1:]))
		}
	}
	for _, cand := range candidates {
		for _, layout := range headerDateFormats {
			if t, err := time.Parse(layout, cand); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseMessage(msg *gmailapi.Message, logger *log.Logger) Message {
	out := Message{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		Labels:       msg.LabelIds,
		InternalDate: msg.InternalDate,
	}
	if msg.Payload == nil {
		return out
	}
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "Subject":
			out.Subject = header.Value
		case "From":
			out.From = header.Value
		case "To":
			out.To = header.Value
		case "Cc":
			out.Cc = header.Value
		case "Date":
			t, ok := parseHeaderDate(header.Value)
			if !ok {
				logger.Warn("could not parse date header", "value", header.Value)
			}
			out.Date = t
		}
	}
	if out.Date.IsZero() && msg.InternalDate > 0 {
		out.Date = time.UnixMilli(msg.InternalDate)
	}
	out.Body = messageBody(msg.Payload)
	out.HasAttachment = hasAttachment(msg.Payload)
	return out
}

// messageBody prefers a text/plain part anywhere in the tree and
// falls back to the first text/html part converted to plain text.
func messageBody(payload *gmailapi.MessagePart) string {
	plain, html := collectBodies(payload)
	if plain != "" {
		return plain
	}
	return html
}

func collectBodies(p *gmailapi.MessagePart) (plain, html string) {
	mt := strings.ToLower(p.MimeType)
	if p.Body != nil && p.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(p.Body.Data); err == nil {
			switch {
			case mt == "text/plain":
				return string(data), ""
			case strings.HasPrefix(mt, "text/html"):
				if t, err := html2text.FromString(string(data), html2text.Options{OmitLinks: true, TextOnly: true}); err == nil {
					html = t
				}
			}
		}
	}
	for _, part := range p.Parts {
		childPlain, childHTML := collectBodies(part)
		if childPlain != "" {
			return childPlain, ""
		}
		if html == "" {
			html = childHTML
		}
	}
	return "", html
}

func hasAttachment(payload *gmailapi.MessagePart) bool {
	for _, part := range payload.Parts {
		if part.Filename != "" {
			return true
		}
		if hasAttachment(part) {
			return true
		}
	}
	return false
}
