package session

import (
	"strings"
	"time"
)

// truncate shortens s to at most max runes, appending "..." when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// formatListDate renders a message date for the result list, in the
// local time zone.
func formatListDate(t time.Time) string {
	if t.IsZero() {
		return "          "
	}
	return t.Local().Format("2006-01-02")
}

// senderName pulls the display name out of a From header, falling
// back to the address itself.
func senderName(from string) string {
	if i := strings.Index(from, "<"); i > 0 {
		name := strings.TrimSpace(from[:i])
		name = strings.Trim(name, "\"")
		if name != "" {
			return name
		}
	}
	return strings.Trim(from, "<>")
}
