package query

import (
	"html"
	"strconv"
	"strings"
)

// The feed this catalog loads from is dirty: numeric columns carry blanks
// and garbage, text columns carry HTML entities. Coercion swallows parse
// failures and returns "absent" instead of surfacing an error, so one bad
// cell never kills a load.

// ParseDecimal parses a decimal string after trimming whitespace. Empty or
// unparsable input yields nil.
func ParseDecimal(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInt parses an integer string after trimming whitespace. Empty or
// unparsable input yields nil.
func ParseInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// UnescapeText resolves HTML entities in source text. Applied at load time
// only, never at query time.
func UnescapeText(raw string) string {
	if raw == "" {
		return raw
	}
	return html.UnescapeString(raw)
}
