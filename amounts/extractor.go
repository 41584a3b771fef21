package amounts

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Confidence says how sure the extractor is about a candidate.
type Confidence int

const (
	ConfidenceLow  Confidence = iota // ambiguous grouping or currency from context wording
	ConfidenceHigh                   // explicit adjacent symbol/code, unambiguous literal
)

func (c Confidence) String() string {
	if c == ConfidenceHigh {
		return "high"
	}
	return "low"
}

// Candidate is one recognized amount occurrence in a piece of text.
type Candidate struct {
	Value      decimal.Decimal
	Currency   string // canonical ISO code
	Start, End int    // byte offsets of the matched span
	Text       string // matched span verbatim
	Confidence Confidence
}

// Submatch groups: 1 prefix currency, 2 its number, 3 number before a
// suffix currency, 4 suffix currency, 5 number after context wording.
var amountRe = regexp.MustCompile(`(?i)` +
	`(USD|EUR|GBP|JPY|CAD|AUD|CHF|INR|US\$|[$€£¥₹])\s?(\d+(?:[.,]\d+)*)` +
	`|(\d+(?:[.,]\d+)*)\s?(USD|EUR|GBP|JPY|CAD|AUD|CHF|INR|[$€£¥₹])` +
	`|(?:amount|total|sum|payment|charge|price|cost|fee|paid|received|sent|transferred|charged|billed)[\s:]+(\d+(?:[.,]\d+)*)`)

// Scanner walks a text and yields amount candidates ordered by
// position, in the manner of bufio.Scanner. A fresh Scanner over the
// same text always yields the same sequence. Malformed literals are
// skipped, never reported as errors.
type Scanner struct {
	text string
	idx  [][]int
	next int
	cur  Candidate
}

// NewScanner prepares a scan over text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text, idx: amountRe.FindAllStringSubmatchIndex(text, -1)}
}

// Scan advances to the next candidate. It returns false when the text
// is exhausted.
func (s *Scanner) Scan() bool {
	for s.next < len(s.idx) {
		m := s.idx[s.next]
		s.next++
		if c, ok := s.candidateAt(m); ok {
			s.cur = c
			return true
		}
	}
	return false
}

// Candidate returns the candidate found by the last successful Scan.
func (s *Scanner) Candidate() Candidate {
	return s.cur
}

// ScanAll collects every candidate in text.
func ScanAll(text string) []Candidate {
	var out []Candidate
	sc := NewScanner(text)
	for sc.Scan() {
		out = append(out, sc.Candidate())
	}
	return out
}

func (s *Scanner) candidateAt(m []int) (Candidate, bool) {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s.text[m[2*i]:m[2*i+1]]
	}

	var lit, curTok string
	fromContext := false
	switch {
	case group(1) != "":
		curTok, lit = group(1), group(2)
		// A leading ISO code must start at a word boundary so that
		// e.g. "applaud 100" is not read as australian dollars.
		if isAlphaCode(curTok) && prevIsLetter(s.text, m[2]) {
			return Candidate{}, false
		}
	case group(4) != "":
		lit, curTok = group(3), group(4)
		// A trailing ISO code must end at a word boundary so that
		// e.g. "100 USDT" is not read as dollars.
		if isAlphaCode(curTok) && nextIsLetter(s.text, m[9]) {
			return Candidate{}, false
		}
	default:
		lit = group(5)
		fromContext = true
	}

	val, ambiguous, ok := normalizeLiteral(lit)
	if !ok {
		return Candidate{}, false
	}

	code := "USD" // context wording implies dollars, as in "total: 1,250.00"
	if !fromContext {
		cur, ok := LookupCurrency(curTok)
		if !ok {
			return Candidate{}, false
		}
		code = cur.Code
	}

	conf := ConfidenceHigh
	if ambiguous || fromContext {
		conf = ConfidenceLow
	}
	return Candidate{
		Value:      val,
		Currency:   code,
		Start:      m[0],
		End:        m[1],
		Text:       s.text[m[0]:m[1]],
		Confidence: conf,
	}, true
}

// currencyMarkers fixes the order ParseLiteral tries markers in,
// longest first, so stripping is deterministic.
var currencyMarkers = []string{
	"US$", "USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "INR",
	"$", "€", "£", "¥", "₹",
}

// ParseLiteral parses one standalone amount token, e.g. "$1,000",
// "250.50", "100 EUR". It returns the normalized value and the
// canonical currency code, or "" when no currency marker is adjacent.
func ParseLiteral(tok string) (decimal.Decimal, string, bool) {
	tok = strings.TrimSpace(tok)
	code := ""

	for _, marker := range currencyMarkers {
		upper := strings.ToUpper(tok)
		if strings.HasPrefix(upper, marker) {
			code = currencies[marker].Code
			tok = strings.TrimSpace(tok[len(marker):])
			break
		}
		if strings.HasSuffix(upper, marker) {
			code = currencies[marker].Code
			tok = strings.TrimSpace(tok[:len(tok)-len(marker)])
			break
		}
	}

	val, _, ok := normalizeLiteral(tok)
	if !ok {
		return decimal.Decimal{}, "", false
	}
	return val, code, true
}

func nextIsLetter(text string, end int) bool {
	if end < 0 || end >= len(text) {
		return false
	}
	r := rune(text[end])
	return unicode.IsLetter(r)
}

func prevIsLetter(text string, start int) bool {
	if start <= 0 || start > len(text) {
		return false
	}
	r := rune(text[start-1])
	return unicode.IsLetter(r)
}

// isAlphaCode reports whether tok is a multi-letter ISO code, as
// opposed to a currency symbol.
func isAlphaCode(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// normalizeLiteral resolves the grouping/decimal separator ambiguity
// with a fixed, locale-free rule set:
//
//   - no separator: plain integer
//   - both "." and "," present: the rightmost occurring separator is
//     the decimal point, the other one is grouping ("1,000.00" and
//     "1.000,00" normalize identically)
//   - one separator type with exactly two trailing digits: decimal
//     point ("1234,56" -> 1234.56)
//   - one separator type in strict groups of three: grouped integer
//     ("1,000,000" -> 1000000); a single such separator is ambiguous
//
// Anything else does not qualify as an amount literal and is skipped.
func normalizeLiteral(lit string) (val decimal.Decimal, ambiguous bool, ok bool) {
	dots := strings.Count(lit, ".")
	commas := strings.Count(lit, ",")

	switch {
	case dots == 0 && commas == 0:
		return mustDecimal(lit)

	case dots > 0 && commas > 0:
		dec, grp := ".", ","
		if strings.LastIndex(lit, ",") > strings.LastIndex(lit, ".") {
			dec, grp = ",", "."
		}
		if strings.Count(lit, dec) > 1 {
			return decimal.Decimal{}, false, false
		}
		frac := lit[strings.LastIndex(lit, dec)+1:]
		if len(frac) < 1 || len(frac) > 2 {
			return decimal.Decimal{}, false, false
		}
		cleaned := strings.ReplaceAll(lit, grp, "")
		cleaned = strings.Replace(cleaned, dec, ".", 1)
		return mustDecimal(cleaned)

	default:
		sep := "."
		if commas > 0 {
			sep = ","
		}
		parts := strings.Split(lit, sep)
		last := parts[len(parts)-1]

		// Two trailing digits after the final separator read as cents.
		if len(last) == 2 {
			intPart := strings.Join(parts[:len(parts)-1], "")
			v, amb, ok := mustDecimal(intPart + "." + last)
			return v, amb || len(parts) > 2, ok
		}

		// Otherwise only strict thousands grouping qualifies.
		if len(parts[0]) == 0 || len(parts[0]) > 3 {
			return decimal.Decimal{}, false, false
		}
		for _, p := range parts[1:] {
			if len(p) != 3 {
				return decimal.Decimal{}, false, false
			}
		}
		v, _, ok := mustDecimal(strings.Join(parts, ""))
		return v, len(parts) == 2, ok
	}
}

func mustDecimal(s string) (decimal.Decimal, bool, bool) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, false
	}
	return v, false, true
}
