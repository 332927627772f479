package extract

import (
	"regexp"
	"strings"
)

// RepairPass is one pure text transformation applied to near-valid JSON
// to make it strictly parseable. Passes run in fixed order, each
// followed by a strict re-parse; the list is data, so new malformation
// patterns slot in without touching control flow.
type RepairPass struct {
	Name  string
	Apply func(string) string
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// DefaultRepairPasses returns the bounded repair sequence for common
// model-output malformations.
func DefaultRepairPasses() []RepairPass {
	return []RepairPass{
		{Name: "trailing_commas", Apply: removeTrailingCommas},
		{Name: "single_quotes", Apply: convertSingleQuotes},
		{Name: "control_chars", Apply: escapeControlChars},
	}
}

func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// convertSingleQuotes rewrites single-quoted string literals as
// double-quoted ones, leaving apostrophes inside double-quoted strings
// alone.
func convertSingleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\' && (inDouble || inSingle):
			b.WriteRune(r)
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteRune(r)
		case r == '"' && inSingle:
			// embedded double quote needs escaping once the literal
			// becomes double-quoted
			b.WriteString(`\"`)
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteRune('"')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeControlChars escapes bare control characters that appear inside
// string literals, the most common being a real newline in an item name.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' && inString {
			b.WriteRune(r)
			escaped = true
			continue
		}
		if r == '"' {
			inString = !inString
			b.WriteRune(r)
			continue
		}
		if inString {
			switch r {
			case '\n':
				b.WriteString(`\n`)
				continue
			case '\r':
				b.WriteString(`\r`)
				continue
			case '\t':
				b.WriteString(`\t`)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
