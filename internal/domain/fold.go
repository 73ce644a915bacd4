package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lower lowercases s with German casing rules.
func Lower(s string) string {
	return cases.Lower(language.German).String(s)
}

// Fold lowercases s and strips diacritics, so "Bezugsverhältnis" becomes
// "bezugsverhaltnis" and "Société" becomes "societe".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, Lower(s))
	if err != nil {
		return Lower(s)
	}
	return folded
}

// FoldEqual compares two strings ignoring case and diacritics.
func FoldEqual(a, b string) bool {
	return Fold(a) == Fold(b)
}

// normalizedKey reduces s to [a-z0-9] after folding. Enum decoding matches on it.
func normalizedKey(s string) string {
	folded := Fold(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
