package amounts

import "github.com/shopspring/decimal"

// Range is an amount criterion. Nil bounds are unbounded; an empty
// Currency matches candidates of any currency. No conversion between
// currencies ever happens: when Currency is set, only candidates with
// exactly that code can satisfy the range.
type Range struct {
	Min      *decimal.Decimal
	Max      *decimal.Decimal
	Currency string
}

// Outcome is the amount-filter decision for one message.
//
// Detected always carries every candidate found in the message,
// matched or not; Representative summarizes the message with a single
// amount. The two must not be conflated: the export reports Detected,
// while Matched/Representative drive filtering and display.
type Outcome struct {
	Matched        bool
	Representative *Candidate
	Detected       []Candidate
}

// Apply decides whether a message's candidates satisfy the requested
// range and picks the representative amount: the maximum-value
// candidate among those matching the requested currency, or among all
// candidates when no currency is set.
//
// A nil range excludes nothing; the criterion is simply absent.
func Apply(cands []Candidate, r *Range) Outcome {
	out := Outcome{Detected: cands}

	var best *Candidate
	for i := range cands {
		c := &cands[i]
		if r != nil && r.Currency != "" && c.Currency != r.Currency {
			continue
		}
		if best == nil || c.Value.GreaterThan(best.Value) {
			best = c
		}
		if r != nil && inRange(c.Value, r) {
			out.Matched = true
		}
	}
	out.Representative = best

	if r == nil {
		out.Matched = true
	}
	return out
}

func inRange(v decimal.Decimal, r *Range) bool {
	if r.Min != nil && v.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && v.GreaterThan(*r.Max) {
		return false
	}
	return true
}
