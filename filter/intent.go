package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/mailsift/mailsift/amounts"
)

// addrPat matches an email address or a bare domain. The domain form
// requires at least one letter per label so date literals such as
// "01.02.2024" never read as domains.
const addrPat = `[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}` +
	`|(?:[a-z0-9-]*[a-z][a-z0-9-]*\.)+[a-z]{2,}`

// datePat matches absolute date tokens: ISO, slashed, and
// "Mar 5, 2024" style. Month names must end at a word boundary so
// ordinary words such as "marked 5" or "janitor 3" never read as dates.
const datePat = `\d{4}[-/.]\d{1,2}[-/.]\d{1,2}` +
	`|\d{1,2}[-/.]\d{1,2}[-/.]\d{4}` +
	`|(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?` +
	`|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)` +
	`\b\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`

// amountPat matches an amount token with an optional adjacent
// currency symbol or code on either side.
const amountPat = `(?:(?:usd|eur|gbp|jpy|cad|aud|chf|inr|us\$|[$€£¥₹])\s?)?` +
	`\d+(?:[.,]\d+)*` +
	`(?:\s?(?:usd|eur|gbp|jpy|cad|aud|chf|inr|[$€£¥₹]))?`

var (
	senderRe    = regexp.MustCompile(`(?i)\b(?:from|sent\s+by)[\s:]+(` + addrPat + `)`)
	recipientRe = regexp.MustCompile(`(?i)\b(?:to|sent\s+to|addressed\s+to)[\s:]+(` + addrPat + `)`)
	bareAddrRe  = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

	relDateRe    = regexp.MustCompile(`(?i)\b(?:in\s+the\s+|the\s+)?(?:(?:last|past)\s+(?:\d+\s+)?(?:days?|weeks?|months?)|this\s+(?:week|month)|today|yesterday)\b`)
	dateSpanRe   = regexp.MustCompile(`(?i)\b(?:between|from)\s+(` + datePat + `)\s+(?:and|to|until)\s+(` + datePat + `)`)
	dateAfterRe  = regexp.MustCompile(`(?i)\b(?:after|since)\s+(` + datePat + `)`)
	dateBeforeRe = regexp.MustCompile(`(?i)\b(?:before|until)\s+(` + datePat + `)`)
	dateOnRe     = regexp.MustCompile(`(?i)\b(?:on\s+)?(` + datePat + `)`)

	amtBetweenRe = regexp.MustCompile(`(?i)\bbetween\s+(` + amountPat + `)\s+and\s+(` + amountPat + `)`)
	amtMinRe     = regexp.MustCompile(`(?i)\b(?:over|above|more\s+than|greater\s+than|at\s+least)\s+(` + amountPat + `)`)
	amtMaxRe     = regexp.MustCompile(`(?i)\b(?:under|below|less\s+than|at\s+most)\s+(` + amountPat + `)`)
	amtExactRe   = regexp.MustCompile(`(?i)\bexactly\s+(` + amountPat + `)`)

	noAttachRe = regexp.MustCompile(`(?i)\b(?:no|without)\s+(?:an?\s+)?attachments?\b`)
	attachRe   = regexp.MustCompile(`(?i)\b(?:with\s+|has\s+|have\s+)?(?:an?\s+)?attachments?\b`)
	fileTypeRe = regexp.MustCompile(`(?i)\b(pdf|docx?|xlsx?|pptx?|csv|zip|png|jpe?g|gif|images?)\s*(?:file|attachment)?s?\b`)
	labelRe    = regexp.MustCompile(`(?i)\blabel(?:ed|led)?\s*:?\s*([a-z0-9_-]+)`)
	folderRe   = regexp.MustCompile(`(?i)\bin\s+(inbox|sent|spam|trash|drafts?|important|starred|promotions|updates|social)\b`)

	wordRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9'-]*`)
)

// Domain terms compile as subject-scoped keywords, normalized to
// their singular form.
var domainTerms = map[string]string{
	"invoice": "invoice", "invoices": "invoice",
	"receipt": "receipt", "receipts": "receipt",
	"payment": "payment", "payments": "payment",
	"confirmation": "confirmation", "confirmations": "confirmation",
	"refund": "refund", "refunds": "refund",
	"subscription": "subscription", "subscriptions": "subscription",
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"in": true, "on": true, "at": true, "of": true, "for": true,
	"with": true, "to": true, "from": true, "by": true, "between": true,
	"me": true, "my": true, "i": true, "all": true, "any": true,
	"show": true, "find": true, "get": true, "give": true, "list": true,
	"search": true, "look": true, "want": true, "need": true, "please": true,
	"email": true, "emails": true, "mail": true, "mails": true,
	"message": true, "messages": true,
	"that": true, "which": true, "contain": true, "containing": true,
	"about": true, "have": true, "has": true, "is": true, "are": true,
	"was": true, "were": true, "sent": true, "received": true,
	"over": true, "under": true, "above": true, "below": true,
	"than": true, "more": true, "less": true, "exactly": true,
	"last": true, "past": true, "this": true,
	"day": true, "days": true, "week": true, "weeks": true,
	"month": true, "months": true, "today": true, "yesterday": true,
}

// parser holds the residual request text while facet extractors
// consume it. Later extractors only see what earlier ones left, so a
// date token is never re-captured as a keyword.
type parser struct {
	text string
	now  time.Time
	crit Criteria
}

// ParseRequest turns one natural-language filter request into
// criteria. An unrecognized sentence is not an error; facets that do
// not appear stay unset. It fails only when a recognized date phrase
// cannot be resolved (*AmbiguousDateError) or an explicit range is
// inverted (*InvalidRangeError).
//
// The reference instant anchors relative date phrases and is supplied
// by the caller, never read from the clock here.
func ParseRequest(text string, now time.Time) (*Criteria, error) {
	p := &parser{text: text, now: now}

	p.extractParties()
	if err := p.extractDates(); err != nil {
		return nil, err
	}
	if err := p.extractAmounts(); err != nil {
		return nil, err
	}
	p.extractAttachments()
	p.extractLabel()
	p.extractKeywords()

	return &p.crit, nil
}

// consume blanks out a matched span so later extractors skip it.
func (p *parser) consume(loc []int) {
	p.text = p.text[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + p.text[loc[1]:]
}

// take removes the first match of re and returns its submatches.
func (p *parser) take(re *regexp.Regexp) []string {
	loc := re.FindStringSubmatchIndex(p.text)
	if loc == nil {
		return nil
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = p.text[loc[2*i]:loc[2*i+1]]
		}
	}
	p.consume(loc[:2])
	return groups
}

func (p *parser) extractParties() {
	if m := p.take(senderRe); m != nil {
		p.crit.From = strptr(strings.ToLower(m[1]))
	}
	if m := p.take(recipientRe); m != nil {
		p.crit.To = strptr(strings.ToLower(m[1]))
	}
	// A bare address with no from/to wording defaults to sender.
	if p.crit.From == nil {
		if m := p.take(bareAddrRe); m != nil {
			p.crit.From = strptr(strings.ToLower(m[0]))
		}
	}
}

func (p *parser) extractDates() error {
	if m := p.take(dateSpanRe); m != nil {
		r, err := ResolveDateExpr("between "+m[1]+" and "+m[2], p.now)
		if err != nil {
			return err
		}
		p.crit.After, p.crit.Before = &r.Start, &r.End
		return nil
	}
	if m := p.take(relDateRe); m != nil {
		r, err := ResolveDateExpr(m[0], p.now)
		if err != nil {
			return err
		}
		p.crit.After, p.crit.Before = &r.Start, &r.End
		return nil
	}
	if m := p.take(dateAfterRe); m != nil {
		r, err := ResolveDateExpr(m[1], p.now)
		if err != nil {
			return err
		}
		p.crit.After = &r.Start
	}
	if m := p.take(dateBeforeRe); m != nil {
		r, err := ResolveDateExpr(m[1], p.now)
		if err != nil {
			return err
		}
		p.crit.Before = &r.Start
	}
	if p.crit.After != nil && p.crit.Before != nil {
		if p.crit.After.After(*p.crit.Before) {
			return &InvalidRangeError{
				What: "date",
				Min:  p.crit.After.Format("2006-01-02"),
				Max:  p.crit.Before.Format("2006-01-02"),
			}
		}
		return nil
	}
	if p.crit.After == nil && p.crit.Before == nil {
		if m := p.take(dateOnRe); m != nil {
			r, err := ResolveDateExpr(m[1], p.now)
			if err != nil {
				return err
			}
			p.crit.After, p.crit.Before = &r.Start, &r.End
		}
	}
	return nil
}

func (p *parser) extractAmounts() error {
	if m := p.take(amtBetweenRe); m != nil {
		lo, loCur, okLo := amounts.ParseLiteral(m[1])
		hi, hiCur, okHi := amounts.ParseLiteral(m[2])
		if !okLo || !okHi {
			return nil
		}
		if lo.GreaterThan(hi) {
			return &InvalidRangeError{What: "amount", Min: lo.String(), Max: hi.String()}
		}
		p.crit.AmountMin, p.crit.AmountMax = &lo, &hi
		p.setCurrency(loCur, hiCur)
		return nil
	}
	if m := p.take(amtExactRe); m != nil {
		if v, cur, ok := amounts.ParseLiteral(m[1]); ok {
			p.crit.AmountMin, p.crit.AmountMax = &v, &v
			p.setCurrency(cur)
		}
		return nil
	}
	if m := p.take(amtMinRe); m != nil {
		if v, cur, ok := amounts.ParseLiteral(m[1]); ok {
			p.crit.AmountMin = &v
			p.setCurrency(cur)
		}
	}
	if m := p.take(amtMaxRe); m != nil {
		if v, cur, ok := amounts.ParseLiteral(m[1]); ok {
			p.crit.AmountMax = &v
			p.setCurrency(cur)
		}
	}
	if p.crit.AmountMin != nil && p.crit.AmountMax != nil &&
		p.crit.AmountMin.GreaterThan(*p.crit.AmountMax) {
		return &InvalidRangeError{
			What: "amount",
			Min:  p.crit.AmountMin.String(),
			Max:  p.crit.AmountMax.String(),
		}
	}
	return nil
}

// setCurrency records the first explicit currency marker seen.
// Absent a marker the criteria currency stays unset and matches any.
func (p *parser) setCurrency(codes ...string) {
	if p.crit.AmountCurrency != nil {
		return
	}
	for _, c := range codes {
		if c != "" {
			p.crit.AmountCurrency = strptr(c)
			return
		}
	}
}

func (p *parser) extractAttachments() {
	if p.take(noAttachRe) != nil {
		p.crit.Attachment = AttachmentNone
		return
	}
	if m := p.take(fileTypeRe); m != nil {
		ext := strings.ToLower(strings.TrimSuffix(m[1], "s"))
		if ext == "image" || ext == "jpeg" {
			ext = "jpg"
		}
		p.crit.Attachment = AttachmentRequired
		p.crit.AttachmentType = strptr(ext)
	}
	if p.take(attachRe) != nil {
		p.crit.Attachment = AttachmentRequired
	}
}

func (p *parser) extractLabel() {
	if m := p.take(labelRe); m != nil {
		p.crit.Label = strptr(strings.ToLower(m[1]))
		return
	}
	if m := p.take(folderRe); m != nil {
		p.crit.Label = strptr(strings.ToLower(m[1]))
	}
}

func (p *parser) extractKeywords() {
	seen := map[string]bool{}
	for _, w := range wordRe.FindAllString(p.text, -1) {
		w = strings.ToLower(w)
		if term, ok := domainTerms[w]; ok {
			if !seen[term] {
				seen[term] = true
				p.crit.Keywords = append(p.crit.Keywords, Keyword{Term: term, Subject: true})
			}
			continue
		}
		if stopWords[w] || len(w) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		p.crit.Keywords = append(p.crit.Keywords, Keyword{Term: w})
	}
}

func strptr(s string) *string { return &s }
