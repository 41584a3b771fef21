package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateRange is an absolute half-open window [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

var (
	relWindowRe = regexp.MustCompile(`^(?:last|past)\s+(\d+)\s+(day|week|month)s?$`)
	relSingleRe = regexp.MustCompile(`^(?:last|past)\s+(day|week|month)$`)
	rangeRe     = regexp.MustCompile(`^(?:between\s+)?(.+?)\s+(?:and|to)\s+(.+)$`)
)

// ResolveDateExpr converts a date phrase into an absolute range.
// The reference instant is supplied by the caller so resolution is a
// pure function of its inputs.
//
// Relative windows end at now, exclusive: "last 7 days" is
// [now-7d, now). Absolute single dates cover that calendar day.
// Explicit ranges cover [start 00:00, end+1d 00:00).
func ResolveDateExpr(phrase string, now time.Time) (DateRange, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	p = strings.TrimPrefix(p, "in the ")
	p = strings.TrimPrefix(p, "the ")

	switch p {
	case "today":
		return DateRange{Start: midnight(now), End: now}, nil
	case "yesterday":
		return DateRange{Start: midnight(now).AddDate(0, 0, -1), End: midnight(now)}, nil
	case "this week":
		return DateRange{Start: midnight(now).AddDate(0, 0, -int(now.Weekday())), End: now}, nil
	case "this month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first, End: now}, nil
	}

	if m := relWindowRe.FindStringSubmatch(p); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return DateRange{}, &AmbiguousDateError{Phrase: phrase, Reason: "bad window size"}
		}
		return DateRange{Start: back(now, n, m[2]), End: now}, nil
	}
	if m := relSingleRe.FindStringSubmatch(p); m != nil {
		return DateRange{Start: back(now, 1, m[1]), End: now}, nil
	}

	if m := rangeRe.FindStringSubmatch(p); m != nil {
		start, err := parseDay(m[1], now)
		if err != nil {
			return DateRange{}, err
		}
		end, err := parseDay(m[2], now)
		if err != nil {
			return DateRange{}, err
		}
		if start.After(end) {
			return DateRange{}, &InvalidRangeError{
				What: "date",
				Min:  start.Format("2006-01-02"),
				Max:  end.Format("2006-01-02"),
			}
		}
		return DateRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
	}

	day, err := parseDay(p, now)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: day, End: day.AddDate(0, 0, 1)}, nil
}

// parseDay parses an absolute date phrase down to its day's midnight.
func parseDay(s string, now time.Time) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, &AmbiguousDateError{Phrase: s, Reason: err.Error()}
	}
	return midnight(t), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// back moves n calendar units before t. Months shift by calendar
// month, not a 30-day approximation.
func back(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, -n)
	case "week":
		return t.AddDate(0, 0, -7*n)
	default: // month
		return t.AddDate(0, -n, 0)
	}
}
