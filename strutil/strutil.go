// Package strutil holds the text normalisation helpers shared by the
// extractors, the gazetteer and the storages.
package strutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Spaces collapses every whitespace run to a single space and trims the result.
func Spaces(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// StripAccents removes combining marks after NFKD decomposition,
// so "Hozzávalók" becomes "Hozzavalok" and "ő" becomes "o".
func StripAccents(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold is the accent and case insensitive form used for every comparison.
func Fold(s string) string {
	return strings.TrimSpace(strings.ToLower(StripAccents(s)))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Unique drops repeated values keeping the first occurrence order.
func Unique(seq []string) []string {
	seen := make(map[string]struct{}, len(seq))
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
