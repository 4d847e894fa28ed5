// Package analyzer turns raw document text into a MetricRecord using static
// word lists: normalization, lexicon sentiment, readability, pronoun counts
// and average word length.
package analyzer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/lexmetrics/internal/lexicon"
	"github.com/zombar/lexmetrics/internal/models"
)

// Analyzer performs text analysis against a fixed lexicon and stop word set.
// It holds no mutable state and is safe to share.
type Analyzer struct {
	lexicon   *lexicon.Lexicon
	stopwords lexicon.WordSet
}

// New creates a new Analyzer
func New(lex *lexicon.Lexicon, stopwords lexicon.WordSet) *Analyzer {
	if lex == nil {
		lex = &lexicon.Lexicon{}
	}
	return &Analyzer{
		lexicon:   lex,
		stopwords: stopwords,
	}
}

// NewDefault creates an Analyzer backed by the built-in word lists
func NewDefault() *Analyzer {
	return New(lexicon.Default(), lexicon.DefaultStopwords())
}

// Analyze computes the metric record for doc. It returns false, and no
// record, when the document has no text.
func (a *Analyzer) Analyze(doc models.Document) (*models.MetricRecord, bool) {
	return a.AnalyzeWithContext(context.Background(), doc)
}

// AnalyzeWithContext is Analyze with a tracing span attached to ctx
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, doc models.Document) (*models.MetricRecord, bool) {
	_, span := otel.Tracer("lexmetrics").Start(ctx, "analyzer.analyze",
		trace.WithAttributes(
			attribute.String("document.id", doc.ID),
			attribute.Int("text.length", len(doc.Text)),
		),
	)
	defer span.End()

	if doc.Text == "" {
		span.SetAttributes(attribute.Bool("document.skipped", true))
		return nil, false
	}

	tokens := Normalize(doc.Text, a.stopwords)
	sentiment := ScoreSentiment(tokens, a.lexicon)
	readability := ScoreReadability(tokens)

	record := Assemble(doc.ID, sentiment, readability,
		CountPersonalPronouns(doc.Text),
		AverageWordLength(tokens),
	)

	span.SetAttributes(
		attribute.Int("tokens.count", len(tokens)),
		attribute.Float64("fog_index", record.FogIndex),
	)

	return record, true
}

// Assemble combines the component outputs into a MetricRecord
func Assemble(id string, s Sentiment, r Readability, pronouns int, avgWordLength float64) *models.MetricRecord {
	return &models.MetricRecord{
		ID:                   id,
		PositiveScore:        s.Positive,
		NegativeScore:        s.Negative,
		PolarityScore:        s.Polarity,
		SubjectivityScore:    s.Subjectivity,
		AvgSentenceLength:    r.AvgSentenceLength,
		PctComplexWords:      r.PctComplexWords,
		FogIndex:             r.FogIndex,
		ComplexWordCount:     r.ComplexWordCount,
		WordCount:            r.WordCount,
		PersonalPronounCount: pronouns,
		AvgWordLength:        avgWordLength,
	}
}
