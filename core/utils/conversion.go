package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseMinutes reads a duration cell such as "45", "45 min" or " 30mins".
// Only the leading integer is used; ok is false when there is none.
func ParseMinutes(val string) (int, bool) {
	s := strings.TrimSpace(val)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}

// StringValue dereferences a nullable string, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
