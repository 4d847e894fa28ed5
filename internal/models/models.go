package models

import "time"

// Document is a single input unit: an identifier plus its raw text.
// Text is empty when retrieval failed.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MetricRecord holds the lexical and readability metrics for one document.
// Field order matches the exported column order.
type MetricRecord struct {
	ID                   string  `json:"id"`
	PositiveScore        int     `json:"positive_score"`
	NegativeScore        int     `json:"negative_score"`
	PolarityScore        float64 `json:"polarity_score"`
	SubjectivityScore    float64 `json:"subjectivity_score"`
	AvgSentenceLength    float64 `json:"avg_sentence_length"`
	PctComplexWords      float64 `json:"pct_complex_words"`
	FogIndex             float64 `json:"fog_index"`
	ComplexWordCount     int     `json:"complex_word_count"`
	WordCount            int     `json:"word_count"`
	PersonalPronounCount int     `json:"personal_pronoun_count"`
	AvgWordLength        float64 `json:"avg_word_length"`
}

// Analysis is a stored MetricRecord with its provenance
type Analysis struct {
	Record    MetricRecord `json:"record"`
	SourceURL string       `json:"source_url,omitempty"`
	Position  int          `json:"position"` // index in the batch input, 0 for single requests
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Input is one row of a batch input list.
type Input struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
