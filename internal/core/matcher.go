package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// foldCaser performs Unicode case folding so that matching is
// case-insensitive beyond plain ASCII
var foldCaser = cases.Fold()

// FindMatch returns the first keyword (in list order) that occurs in the
// text as a complete word: no alphanumeric rune immediately before or after
// the matched span. Keywords containing spaces or hyphens are matched as a
// literal run of characters. Blank keywords are skipped, empty text never
// matches, and malformed input degrades to "no match".
func FindMatch(text string, keywords []string) (string, bool) {
	if len(keywords) == 0 || strings.TrimSpace(text) == "" {
		return "", false
	}

	folded := []rune(foldCaser.String(text))

	for _, keyword := range keywords {
		needle := []rune(foldCaser.String(strings.TrimSpace(keyword)))
		if len(needle) == 0 {
			continue
		}
		if containsWord(folded, needle) {
			return keyword, true
		}
	}

	return "", false
}

// containsWord reports whether needle occurs in text bounded on each side
// by a non-alphanumeric rune or the string boundary
func containsWord(text, needle []rune) bool {
	for i := 0; i+len(needle) <= len(text); i++ {
		if !runesEqual(text[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordRune(text[i-1]) {
			continue
		}
		if end := i + len(needle); end < len(text) && isWordRune(text[end]) {
			continue
		}
		return true
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
