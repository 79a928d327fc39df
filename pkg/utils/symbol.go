package utils

import (
	"strings"
)

// NormalizeSymbol normalizes a user-input stock symbol to the canonical
// uppercase form used as the document-store key. It handles whitespace,
// casing, and the $ prefix common in chat and social feeds.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	symbol = strings.TrimPrefix(symbol, "$")
	return symbol
}

var queryReplacer = strings.NewReplacer("&", "and", "-", " ")

// SearchQuery converts a symbol into the plain-text query sent to the news
// search feed: "&" becomes "and" and "-" becomes a space, so symbols like
// "M&M" or "BAJAJ-AUTO" match article text.
func SearchQuery(symbol string) string {
	return queryReplacer.Replace(symbol)
}
