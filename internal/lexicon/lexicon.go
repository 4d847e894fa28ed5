package lexicon

// Lexicon is the pair of sentiment word sets.
type Lexicon struct {
	Positive WordSet
	Negative WordSet
}

// Default returns the built-in sentiment lexicon
func Default() *Lexicon {
	return &Lexicon{
		Positive: NewWordSet(defaultPositiveWords...),
		Negative: NewWordSet(defaultNegativeWords...),
	}
}

// DefaultStopwords returns the built-in English stop word set
func DefaultStopwords() WordSet {
	return NewWordSet(defaultStopWords...)
}

var defaultStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "aren't",
	"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can't", "cannot", "could", "couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don't",
	"down", "during", "each", "few", "for", "from", "further", "had", "hadn't", "has", "hasn't", "have",
	"haven't", "having", "he", "he'd", "he'll", "he's", "her", "here", "here's", "hers", "herself", "him",
	"himself", "his", "how", "how's", "if", "in", "into", "is", "isn't",
	"it", "it's", "its", "itself", "let's", "me", "more", "most", "mustn't", "myself", "no", "nor",
	"not", "of", "off", "on", "once", "only", "or", "other", "ought", "ourselves", "out",
	"over", "own", "same", "shan't", "she", "she'd", "she'll", "she's", "should", "shouldn't", "so", "some",
	"such", "than", "that", "that's", "the", "their", "theirs", "them", "themselves", "then", "there",
	"there's", "these", "they", "they'd", "they'll", "they're", "they've", "this", "those", "through", "to",
	"too", "under", "until", "up", "very", "was", "wasn't", "were",
	"weren't", "what", "what's", "when", "when's", "where", "where's", "which", "while", "who", "who's",
	"whom", "why", "why's", "with", "won't", "would", "wouldn't", "you", "you'd", "you'll", "you're",
	"you've", "your", "yours", "yourself", "yourselves",
}

var defaultPositiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic", "best", "love", "loved", "loving",
	"beautiful", "perfect", "awesome", "brilliant", "outstanding", "superb", "exceptional", "incredible",
	"magnificent", "marvelous", "pleasant", "delightful", "enjoyable", "happy", "glad", "pleased",
	"satisfied", "terrific", "fabulous", "splendid", "impressive", "remarkable", "positive", "advantage",
	"benefit", "success", "successful", "win", "winning", "winner", "better", "improvement", "improved",
	"exciting", "excited", "enthusiasm", "enthusiastic", "optimistic", "hopeful", "promising", "favorable",
}

var defaultNegativeWords = []string{
	"bad", "terrible", "awful", "horrible", "poor", "worst", "hate", "hated", "hating", "ugly", "disgusting",
	"disappointing", "disappointed", "disappointment", "fail", "failed", "failure", "wrong", "problem",
	"problems", "issue", "issues", "error", "errors", "difficult", "difficulty", "hard", "impossible",
	"negative", "unfortunate", "sad", "unhappy", "angry", "frustrated", "frustrating", "annoying", "annoyed",
	"concern", "concerned", "worried", "worry", "fear", "afraid", "scary", "dangerous", "risk", "threat",
	"damage", "damaged", "harm", "harmful", "worse", "loss", "lost", "losing", "loser", "decline", "declined",
}
