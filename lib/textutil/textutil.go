package textutil

import (
	"strings"
	"unicode"
)

// ContainsAnyFold reports whether `s` contains any of `needles` as a
// case-insensitive substring. Empty needles never match.
func ContainsAnyFold(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// DigitsOnly drops every rune that is not an ascii digit.
func DigitsOnly(s string) string {
	var out strings.Builder
	for _, c := range s {
		if c <= unicode.MaxASCII && unicode.IsDigit(c) {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// NonEmpty trims every string and drops the empty ones.
func NonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
