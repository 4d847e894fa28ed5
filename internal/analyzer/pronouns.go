package analyzer

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

var pronounPattern = regexp.MustCompile(`(?i)\b(?:I|we|my|ours|us)\b`)

// CountPersonalPronouns counts whole-word, case-insensitive occurrences of
// I, we, my, ours and us in the raw, un-normalized text.
func CountPersonalPronouns(text string) int {
	count := 0
	for _, loc := range pronounPattern.FindAllStringIndex(text, -1) {
		// \b is ASCII-only in RE2; reject matches glued to non-ASCII letters
		if r, _ := utf8.DecodeLastRuneInString(text[:loc[0]]); isWordRune(r) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); isWordRune(r) {
			continue
		}
		count++
	}
	return count
}

func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
