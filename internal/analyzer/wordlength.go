package analyzer

import "unicode/utf8"

// AverageWordLength returns the mean character count of tokens, 0 when empty
func AverageWordLength(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	total := 0
	for _, token := range tokens {
		total += utf8.RuneCountInString(token)
	}
	return float64(total) / float64(len(tokens))
}
