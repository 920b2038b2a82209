package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SentenceCase capitalises the first word and lower-cases the rest. Words are
// split on any non-alphanumeric rune and on case boundaries, then joined by a
// single space.
func SentenceCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)
	words[0] = title.String(words[0])
	for i := 1; i < len(words); i++ {
		words[i] = lower.String(words[i])
	}
	return strings.Join(words, " ")
}

// TitleCase capitalises every word.
func TitleCase(s string) string {
	words := splitWords(s)
	title := cases.Title(language.Und)
	for i, word := range words {
		words[i] = title.String(word)
	}
	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	runes := []rune(s)
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}
