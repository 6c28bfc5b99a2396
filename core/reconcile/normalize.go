package reconcile

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DateUnset is the normalized form of an empty or absent date.
// No dated value normalizes to it.
const DateUnset = ""

const isoLayout = "2006-01-02"

// Day-first is tried before month-first, so "02/09/2024" reads as 2 September.
var slashLayouts = []string{
	"2/1/2006",
	"1/2/2006",
}

// NormalizeName canonicalizes a student name for identity comparison.
// The result is never meant for display.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeDate converts an ISO, day-first or month-first date to ISO form.
// Empty input yields DateUnset with ok=true. Input matching no known pattern
// is returned unchanged with ok=false; callers treat it as an opaque value.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateUnset, true
	}

	if t, err := time.Parse(isoLayout, s); err == nil {
		return t.Format(isoLayout), true
	}

	// Timestamps from the store carry a time component after the date.
	if len(s) > len(isoLayout) && (s[len(isoLayout)] == 'T' || s[len(isoLayout)] == ' ') {
		if t, err := time.Parse(isoLayout, s[:len(isoLayout)]); err == nil {
			return t.Format(isoLayout), true
		}
	}

	for _, layout := range slashLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout), true
		}
	}

	return raw, false
}

// equalFold compares two display values ignoring case and surrounding whitespace.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
