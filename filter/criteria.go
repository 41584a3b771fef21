// Package filter turns free-form email filter requests into structured
// criteria and Gmail search queries.
package filter

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttachmentMode says whether the request constrains attachments.
type AttachmentMode int

const (
	AttachmentAny      AttachmentMode = iota // no constraint
	AttachmentRequired                       // message must have an attachment
	AttachmentNone                           // message must not have one
)

// Keyword is one search term. Subject-scoped keywords compile to
// subject:<term>, the rest are bare tokens.
type Keyword struct {
	Term    string
	Subject bool
}

// Criteria is the fully resolved representation of one filter request.
// Optional facets are pointers so "not set" is distinct from a zero
// value. All dates are absolute by the time a Criteria leaves the
// parser; no relative phrase survives into it.
//
// A Criteria is built once per request and never mutated afterwards.
type Criteria struct {
	From *string // sender address or domain, lowercase
	To   *string // recipient address or domain, lowercase

	// Date window [After, Before).
	After  *time.Time
	Before *time.Time

	Keywords []Keyword

	Attachment     AttachmentMode
	AttachmentType *string // file extension, e.g. "pdf"

	// Amount range, inclusive on both ends. Applied after retrieval,
	// never compiled into the query. Empty AmountCurrency matches any.
	AmountMin      *decimal.Decimal
	AmountMax      *decimal.Decimal
	AmountCurrency *string

	Label *string
}

// HasAmount reports whether any amount bound is set.
func (c *Criteria) HasAmount() bool {
	return c.AmountMin != nil || c.AmountMax != nil
}

// IsEmpty reports whether no facet at all was recognized.
func (c *Criteria) IsEmpty() bool {
	return c.From == nil && c.To == nil &&
		c.After == nil && c.Before == nil &&
		len(c.Keywords) == 0 &&
		c.Attachment == AttachmentAny && c.AttachmentType == nil &&
		!c.HasAmount() && c.AmountCurrency == nil &&
		c.Label == nil
}
