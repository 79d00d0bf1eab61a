package news

import (
	"strings"
	"unicode"
)

// minKeywordLen is the exclusive lower bound on keyword length; shorter words
// stand in for a stop-word list.
const minKeywordLen = 4

// ExtractKeywords lowercases text, drops everything that is not a-z or
// whitespace and returns the distinct words longer than four letters, in the
// order they first appear.
//
// Only Latin letters survive: digits, punctuation and other scripts (Hebrew,
// Cyrillic, accented letters) are removed outright, so non-Latin text yields
// no keywords at all.
func ExtractKeywords(text string) []string {
	if text == "" {
		return []string{}
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case isSpace(r):
			return ' '
		default:
			return -1
		}
	}, strings.ToLower(text))

	words := strings.Fields(cleaned)
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) <= minKeywordLen {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isSpace matches the ECMAScript \s class: Unicode spaces and line
// terminators plus the byte-order mark U+FEFF, but not NEL (U+0085).
func isSpace(r rune) bool {
	if r == '\ufeff' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// keywordSet is the lookup form of a keyword list.
type keywordSet map[string]struct{}

func newKeywordSet(words []string) keywordSet {
	s := make(keywordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
