// Package amounts finds monetary amounts in message text and filters
// messages by amount range.
package amounts

import "strings"

// Currency is one entry of the static symbol/code table.
type Currency struct {
	Code   string // canonical ISO 4217 code
	Symbol string // display symbol
}

var currencies = map[string]Currency{
	"$":   {Code: "USD", Symbol: "$"},
	"US$": {Code: "USD", Symbol: "$"},
	"USD": {Code: "USD", Symbol: "$"},
	"€":   {Code: "EUR", Symbol: "€"},
	"EUR": {Code: "EUR", Symbol: "€"},
	"£":   {Code: "GBP", Symbol: "£"},
	"GBP": {Code: "GBP", Symbol: "£"},
	"¥":   {Code: "JPY", Symbol: "¥"},
	"JPY": {Code: "JPY", Symbol: "¥"},
	"CAD": {Code: "CAD", Symbol: "$"},
	"AUD": {Code: "AUD", Symbol: "$"},
	"CHF": {Code: "CHF", Symbol: "CHF"},
	"INR": {Code: "INR", Symbol: "₹"},
	"₹":   {Code: "INR", Symbol: "₹"},
}

// LookupCurrency resolves a symbol or ISO code token to its table
// entry. Codes are matched case-insensitively.
func LookupCurrency(token string) (Currency, bool) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(token))]
	return c, ok
}
