package filter

import "strings"

// queryDateFormat is the date layout Gmail's search grammar expects.
const queryDateFormat = "2006/01/02"

// Compile maps criteria onto Gmail's query grammar. It is total and
// deterministic: every set facet contributes exactly one term, terms
// are space-joined (implicit conjunction), and empty criteria compile
// to the empty string.
//
// Amount bounds never appear in the query. Gmail cannot search on
// amounts, so they are applied client-side after retrieval.
func Compile(c *Criteria) string {
	var terms []string

	if c.From != nil {
		terms = append(terms, "from:"+*c.From)
	}
	if c.To != nil {
		terms = append(terms, "to:"+*c.To)
	}
	for _, k := range c.Keywords {
		if k.Subject {
			terms = append(terms, "subject:"+k.Term)
		} else {
			terms = append(terms, k.Term)
		}
	}
	if c.After != nil {
		terms = append(terms, "after:"+c.After.Format(queryDateFormat))
	}
	if c.Before != nil {
		terms = append(terms, "before:"+c.Before.Format(queryDateFormat))
	}
	if c.Attachment == AttachmentRequired {
		terms = append(terms, "has:attachment")
	}
	if c.AttachmentType != nil {
		terms = append(terms, "filename:"+*c.AttachmentType)
	}
	if c.Label != nil {
		terms = append(terms, "label:"+*c.Label)
	}

	return strings.Join(terms, " ")
}
