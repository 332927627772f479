package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
// Two-digit-year and digit-soup variants are handled by the regex
// fallbacks below so the century rule stays explicit.
var dateLayouts = []string{
	"2006-01-02", // 2024-06-18
	"02-01-2006", // 18-06-2024
	"02/01/2006", // 18/06/2024
	"01/02/2006", // 06/18/2024
	"02.01.2006", // 18.06.2024
	"20060102",   // 20240618
	"02012006",   // 18062024
	"2 Jan 2006", // 19 Jun 2025
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
}

var (
	dmy4Re = regexp.MustCompile(`(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})`)
	dmy2Re = regexp.MustCompile(`(\d{1,2})[/.-](\d{1,2})[/.-](\d{2})\b`)
)

// Date parses a receipt or message date in any of the supported
// formats, returning the fallback when the input is absent, a relative
// token ("today"/"now"), or unparseable. The second return reports
// whether the fallback was used. The result is always a valid calendar
// date at midnight UTC; malformed dates never block item extraction.
func Date(s string, fallback time.Time) (time.Time, bool) {
	fb := midnight(fallback)

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return fb, true
	}
	switch strings.ToLower(s) {
	case "today", "now":
		return fb, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return midnight(t), false
		}
	}

	// Day-first numeric extraction from noisy strings, e.g. a date
	// embedded in a longer line.
	if m := dmy4Re.FindStringSubmatch(s); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1]); ok {
			return t, false
		}
	}
	// Two-digit years are always 2000+YY.
	if m := dmy2Re.FindStringSubmatch(s); m != nil {
		year := 2000 + atoi(m[3])
		if t, ok := makeDate(strconv.Itoa(year), m[2], m[1]); ok {
			return t, false
		}
	}

	return fb, true
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, m, d := atoi(year), atoi(month), atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// reject rollovers like Feb 30
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
