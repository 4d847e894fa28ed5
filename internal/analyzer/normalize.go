package analyzer

import (
	"strings"
	"unicode"

	"github.com/zombar/lexmetrics/internal/lexicon"
)

// asciiPunctuation is the full set of 32 ASCII punctuation marks
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// stripper removes ASCII digits and ASCII punctuation in one pass
var stripper = newStripper()

func newStripper() *strings.Replacer {
	var pairs []string
	for _, r := range "0123456789" + asciiPunctuation {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}

// isSeparator matches Unicode white space plus the ASCII file, group, record
// and unit separators (0x1c-0x1f)
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Normalize lower-cases text, strips ASCII digits and punctuation, splits on
// whitespace and drops stop words. Token order and duplicates are kept.
func Normalize(text string, stopwords lexicon.WordSet) []string {
	text = strings.ToLower(text)
	text = stripper.Replace(text)

	fields := strings.FieldsFunc(text, isSeparator)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if stopwords.Contains(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
