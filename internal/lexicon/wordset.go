// Package lexicon holds the static word lists used by the analyzer: the
// positive/negative sentiment lexicon and the stop word set. Both are built
// once and then only read, so a single value can be shared by every caller.
package lexicon

// WordSet is a membership-only set of words. Lookups are exact and
// case-sensitive.
type WordSet map[string]struct{}

// NewWordSet builds a WordSet from the given words
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// Contains reports whether word is in the set
func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of distinct words
func (s WordSet) Len() int {
	return len(s)
}

// Union returns a new set holding the words of s and other
func (s WordSet) Union(other WordSet) WordSet {
	out := make(WordSet, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}
