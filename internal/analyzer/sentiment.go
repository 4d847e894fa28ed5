package analyzer

import "github.com/zombar/lexmetrics/internal/lexicon"

// epsilon keeps the sentiment ratios finite on empty input
const epsilon = 0.000001

// Sentiment holds lexicon hit counts and the scores derived from them
type Sentiment struct {
	Positive     int
	Negative     int
	Polarity     float64
	Subjectivity float64
}

// ScoreSentiment counts positive and negative tokens, once per occurrence
func ScoreSentiment(tokens []string, lex *lexicon.Lexicon) Sentiment {
	var s Sentiment
	for _, token := range tokens {
		if lex.Positive.Contains(token) {
			s.Positive++
		}
		if lex.Negative.Contains(token) {
			s.Negative++
		}
	}

	pos, neg := float64(s.Positive), float64(s.Negative)
	s.Polarity = (pos - neg) / (pos + neg + epsilon)
	s.Subjectivity = (pos + neg) / (float64(len(tokens)) + epsilon)
	return s
}
