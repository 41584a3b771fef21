package filter

import "fmt"

// AmbiguousDateError is returned when a phrase was recognized as a date
// expression but could not be resolved to a concrete range.
type AmbiguousDateError struct {
	Phrase string
	Reason string
}

func (e *AmbiguousDateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("ambiguous date expression %q", e.Phrase)
	}
	return fmt.Sprintf("ambiguous date expression %q: %s", e.Phrase, e.Reason)
}

// InvalidRangeError is returned when an explicit range has its bounds
// inverted, e.g. "between $500 and $100".
type InvalidRangeError struct {
	What string // "amount" or "date"
	Min  string
	Max  string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s range: %s > %s", e.What, e.Min, e.Max)
}
