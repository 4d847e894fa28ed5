package analyzer

import (
	"strings"
	"unicode/utf8"
)

// complexWordLength is the length a token must exceed to count as complex
const complexWordLength = 6

// Readability holds the Gunning-Fog style measures for one text
type Readability struct {
	AvgSentenceLength float64
	PctComplexWords   float64
	FogIndex          float64
	ComplexWordCount  int
	WordCount         int
	SentenceCount     int
}

// ScoreReadability computes readability over normalized tokens. Sentences
// are segmented on the rejoined normalized text, so punctuation removed by
// Normalize no longer separates them.
func ScoreReadability(tokens []string) Readability {
	r := Readability{
		WordCount:     len(tokens),
		SentenceCount: countSentences(strings.Join(tokens, " ")),
	}

	for _, token := range tokens {
		if utf8.RuneCountInString(token) > complexWordLength {
			r.ComplexWordCount++
		}
	}

	if r.SentenceCount > 0 {
		r.AvgSentenceLength = float64(r.WordCount) / float64(r.SentenceCount)
	}
	if r.WordCount > 0 {
		r.PctComplexWords = float64(r.ComplexWordCount) / float64(r.WordCount) * 100
	}
	r.FogIndex = 0.4 * (r.AvgSentenceLength + r.PctComplexWords)

	return r
}

// countSentences splits on '.', '!' and '?' and counts the non-blank pieces
func countSentences(text string) int {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	count := 0
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}
