package analyzer

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/zombar/lexmetrics/internal/lexicon"
	"github.com/zombar/lexmetrics/internal/models"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestAnalyze(t *testing.T) {
	lex := &lexicon.Lexicon{
		Positive: lexicon.NewWordSet("love", "great", "works"),
		Negative: lexicon.NewWordSet(),
	}
	a := New(lex, lexicon.NewWordSet("this", "it"))

	record, ok := a.Analyze(models.Document{ID: "D1", Text: "I love this product. It works great!"})
	if !ok {
		t.Fatal("expected a record for non-empty text")
	}

	if record.ID != "D1" {
		t.Errorf("expected id D1, got %s", record.ID)
	}
	if record.PositiveScore != 3 {
		t.Errorf("expected positive score 3, got %d", record.PositiveScore)
	}
	if record.NegativeScore != 0 {
		t.Errorf("expected negative score 0, got %d", record.NegativeScore)
	}
	if !almostEqual(record.PolarityScore, 3/(3+epsilon)) {
		t.Errorf("unexpected polarity %v", record.PolarityScore)
	}
	if !almostEqual(record.SubjectivityScore, 3/(5+epsilon)) {
		t.Errorf("unexpected subjectivity %v", record.SubjectivityScore)
	}
	if record.WordCount != 5 {
		t.Errorf("expected 5 words, got %d", record.WordCount)
	}
	if record.ComplexWordCount != 1 {
		t.Errorf("expected 1 complex word (product), got %d", record.ComplexWordCount)
	}
	if !almostEqual(record.AvgSentenceLength, 5) {
		t.Errorf("expected avg sentence length 5, got %v", record.AvgSentenceLength)
	}
	if !almostEqual(record.PctComplexWords, 20) {
		t.Errorf("expected 20%% complex words, got %v", record.PctComplexWords)
	}
	if !almostEqual(record.FogIndex, 10) {
		t.Errorf("expected fog index 10, got %v", record.FogIndex)
	}
	if record.PersonalPronounCount != 1 {
		t.Errorf("expected 1 pronoun, got %d", record.PersonalPronounCount)
	}
	if !almostEqual(record.AvgWordLength, 4.4) {
		t.Errorf("expected avg word length 4.4, got %v", record.AvgWordLength)
	}
}

func TestAnalyzeEmptyTextSkipped(t *testing.T) {
	a := NewDefault()

	record, ok := a.Analyze(models.Document{ID: "D2", Text: ""})
	if ok || record != nil {
		t.Errorf("expected no record for empty text, got %+v", record)
	}
}

func TestAnalyzeZeroTokensYieldsZeroRecord(t *testing.T) {
	a := New(lexicon.Default(), lexicon.NewWordSet("the"))

	record, ok := a.Analyze(models.Document{ID: "D3", Text: "123 ... the !!!"})
	if !ok {
		t.Fatal("non-empty text must produce a record")
	}

	want := &models.MetricRecord{ID: "D3"}
	if !reflect.DeepEqual(record, want) {
		t.Errorf("expected all-zero record, got %+v", record)
	}
}

func TestNormalize(t *testing.T) {
	stopwords := lexicon.NewWordSet("the", "and")

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty string", "", []string{}},
		{"lower case", "Hello WORLD", []string{"hello", "world"}},
		{"digits removed", "abc123 4567 x9y", []string{"abc", "xy"}},
		{"punctuation removed", "don't stop-me, now!", []string{"dont", "stopme", "now"}},
		{"stop words removed", "The cat and the hat", []string{"cat", "hat"}},
		{"duplicates kept", "go go go", []string{"go", "go", "go"}},
		{"whitespace runs", "  a\t\tb\n\nc  ", []string{"a", "b", "c"}},
		{"unicode punctuation kept", "naïve “quoted”", []string{"naïve", "“quoted”"}},
		{"non-ascii digits kept", "x٣y", []string{"x٣y"}},
		{"ascii separators split", "a\x1cb\x1dc\x1ed\x1fe", []string{"a", "b", "c", "d", "e"}},
		{"unicode spaces split", "a\u00a0b\u2003c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, stopwords)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeStripsAllASCIIPunctuation(t *testing.T) {
	if len(asciiPunctuation) != 32 {
		t.Fatalf("expected 32 punctuation marks, got %d", len(asciiPunctuation))
	}

	got := Normalize("a"+asciiPunctuation+"b", nil)
	if !reflect.DeepEqual(got, []string{"ab"}) {
		t.Errorf("expected [ab], got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	stopwords := lexicon.DefaultStopwords()
	inputs := []string{
		"The quick brown fox, aged 7, jumps over the lazy dog!",
		"I love this product. It works great!",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input, stopwords)
		twice := Normalize(strings.Join(once, " "), stopwords)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalize not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}

func TestScoreSentiment(t *testing.T) {
	lex := &lexicon.Lexicon{
		Positive: lexicon.NewWordSet("good"),
		Negative: lexicon.NewWordSet("bad"),
	}

	tests := []struct {
		name         string
		tokens       []string
		positive     int
		negative     int
		polarity     float64
		subjectivity float64
	}{
		{"mixed", []string{"good", "good", "bad"}, 2, 1, 1 / (3 + epsilon), 3 / (3 + epsilon)},
		{"negative only", []string{"bad", "day"}, 0, 1, -1 / (1 + epsilon), 1 / (2 + epsilon)},
		{"no hits", []string{"plain", "text"}, 0, 0, 0, 0},
		{"empty", nil, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreSentiment(tt.tokens, lex)
			if s.Positive != tt.positive || s.Negative != tt.negative {
				t.Errorf("expected counts %d/%d, got %d/%d", tt.positive, tt.negative, s.Positive, s.Negative)
			}
			if !almostEqual(s.Polarity, tt.polarity) {
				t.Errorf("expected polarity %v, got %v", tt.polarity, s.Polarity)
			}
			if !almostEqual(s.Subjectivity, tt.subjectivity) {
				t.Errorf("expected subjectivity %v, got %v", tt.subjectivity, s.Subjectivity)
			}
			if math.IsNaN(s.Polarity) || math.IsNaN(s.Subjectivity) {
				t.Error("scores must never be NaN")
			}
		})
	}
}

func TestScoreSentimentBounds(t *testing.T) {
	lex := &lexicon.Lexicon{
		Positive: lexicon.NewWordSet("up", "high"),
		Negative: lexicon.NewWordSet("down", "low"),
	}
	samples := [][]string{
		{"up", "up", "up"},
		{"down"},
		{"high", "low", "low"},
		{"up", "down", "x", "y"},
		{},
	}

	for _, tokens := range samples {
		s := ScoreSentiment(tokens, lex)
		if s.Polarity < -1-epsilon || s.Polarity > 1+epsilon {
			t.Errorf("polarity out of range for %q: %v", tokens, s.Polarity)
		}
		if s.Subjectivity < 0 || s.Subjectivity > 1+epsilon {
			t.Errorf("subjectivity out of range for %q: %v", tokens, s.Subjectivity)
		}
	}
}

func TestScoreReadability(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		avgLength float64
		pct       float64
		fog       float64
		complex   int
	}{
		{"short words", "Short text here.", 3, 0, 1.2, 0},
		{"one complex word", "Short sentence here.", 3, 100.0 / 3, 0.4 * (3 + 100.0/3), 1},
		{"all complex", "readability matters tremendously", 3, 100, 41.2, 3},
		{"empty", "", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreReadability(Normalize(tt.text, nil))
			if !almostEqual(r.AvgSentenceLength, tt.avgLength) {
				t.Errorf("expected avg sentence length %v, got %v", tt.avgLength, r.AvgSentenceLength)
			}
			if !almostEqual(r.PctComplexWords, tt.pct) {
				t.Errorf("expected pct complex %v, got %v", tt.pct, r.PctComplexWords)
			}
			if !almostEqual(r.FogIndex, tt.fog) {
				t.Errorf("expected fog index %v, got %v", tt.fog, r.FogIndex)
			}
			if r.ComplexWordCount != tt.complex {
				t.Errorf("expected %d complex words, got %d", tt.complex, r.ComplexWordCount)
			}
		})
	}
}

func TestScoreReadabilitySegmentsNormalizedText(t *testing.T) {
	// Normalization removes the sentence terminators, so three sentences
	// collapse into one.
	r := ScoreReadability(Normalize("One two. Three four! Five six?", nil))
	if r.SentenceCount != 1 {
		t.Errorf("expected 1 sentence, got %d", r.SentenceCount)
	}
	if !almostEqual(r.AvgSentenceLength, 6) {
		t.Errorf("expected avg sentence length 6, got %v", r.AvgSentenceLength)
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"single sentence", "Hello world.", 1},
		{"multiple sentences", "Hello. How are you? Fine!", 3},
		{"no punctuation", "Hello world", 1},
		{"only terminators", "...!?", 0},
		{"blank segments", "a.  . b", 2},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := countSentences(tt.input)
			if count != tt.expected {
				t.Errorf("expected %d sentences, got %d", tt.expected, count)
			}
		})
	}
}

func TestCountPersonalPronouns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"mixed case", "I think we can", 2},
		{"case insensitive", "i think WE can", 2},
		{"all pronouns", "I, we, my, ours, us.", 5},
		{"sub-word not matched", "tours myth usual wet", 0},
		{"our is not ours", "our house", 0},
		{"punctuation boundaries", "(us) [my] we's", 3},
		{"non-ascii neighbour", "émy usé", 0},
		{"combining mark ends word", "I\u0301 am here", 1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := CountPersonalPronouns(tt.input)
			if count != tt.expected {
				t.Errorf("expected %d pronouns, got %d", tt.expected, count)
			}
		})
	}
}

func TestAverageWordLength(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected float64
	}{
		{"simple", []string{"a", "bb", "ccc"}, 2.0},
		{"runes not bytes", []string{"café"}, 4.0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageWordLength(tt.tokens)
			if !almostEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
