package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds Vietnamese text for matching: diacritics stripped, đ → d,
// lowercased, anything outside [a-z0-9] turned into a single space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingSpace := false
	for _, r := range folded {
		if r == 'đ' || r == 'Đ' {
			r = 'd'
		}
		r = unicode.ToLower(r)

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}

		pendingSpace = true
	}

	return b.String()
}

func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// NGrams returns every 1..maxN token window of normalized text.
func NGrams(normalized string, maxN int) []string {
	toks := Tokens(normalized)

	var out []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(toks); i++ {
			out = append(out, strings.Join(toks[i:i+n], " "))
		}
	}

	return out
}

// ContainsFold reports whether needle occurs in haystack after both are normalized.
func ContainsFold(haystack, needle string) bool {
	n := Normalize(needle)
	if len(n) == 0 {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}

func hasPhrase(text string, phrases []string) bool {
	padded := " " + text + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
