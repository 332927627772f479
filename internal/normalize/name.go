package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// leading store/product code prefixes like "BB VE", "SUNL", "E FR"
	codePrefixRe = regexp.MustCompile(`^[A-Z]{1,4}\s+(VE\s+|FR\s+)?`)
	// trailing size fragments like "-1kg", "-5pcs", "150GRAM-1pcs"
	sizeSuffixRe    = regexp.MustCompile(`-\d+(?:\.\d+)?[a-zA-Z]+$`)
	complexSuffixRe = regexp.MustCompile(`\d+[A-Z]+-\d+[a-z]+$`)
	// "FR" (fresh) markers embedded mid-name
	freshRe = regexp.MustCompile(`\bFR\s+`)
)

// knownNames maps receipt shorthand to the product it stands for.
// Matched against the cleaned name, first hit wins.
var knownNames = []struct {
	token string
	name  string
}{
	{"DRAKSHE", "Grapes"},
	{"KALINGAN", "Black Grapes"},
	{"LIME", "Lime"},
	{"TGHT", "Sunlight Soap"},
}

// CleanName strips product codes and size fragments from a raw receipt
// item name and title-cases the remainder. An empty result falls back
// to the original name verbatim.
func CleanName(original string) string {
	name := strings.TrimSpace(original)

	name = codePrefixRe.ReplaceAllString(name, "")
	name = sizeSuffixRe.ReplaceAllString(name, "")
	name = complexSuffixRe.ReplaceAllString(name, "")
	name = freshRe.ReplaceAllString(name, "")

	name = titleCase(strings.TrimSpace(name))

	upper := strings.ToUpper(name)
	for _, kn := range knownNames {
		if strings.Contains(upper, kn.token) {
			name = kn.name
			break
		}
	}

	if name == "" {
		return original
	}
	return name
}

func titleCase(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
