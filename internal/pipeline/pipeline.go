// Package pipeline drives documents through retrieval, analysis and the
// configured sinks, one document at a time in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zombar/lexmetrics/internal/analyzer"
	"github.com/zombar/lexmetrics/internal/metrics"
	"github.com/zombar/lexmetrics/internal/models"
	"github.com/zombar/lexmetrics/internal/retriever"
)

// Sink persists analysed records
type Sink interface {
	Write(ctx context.Context, analysis *models.Analysis) error
}

// ArticleSaver keeps a copy of retrieved text
type ArticleSaver interface {
	Save(id, text string) error
}

// SkipError reports a document that produced no record because its content
// could not be retrieved or was empty.
type SkipError struct {
	ID  string
	Err error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped %s: %v", e.ID, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// Runner processes inputs sequentially
type Runner struct {
	retriever retriever.Retriever
	analyzer  *analyzer.Analyzer
	articles  ArticleSaver
	sinks     []Sink
	metrics   *metrics.Metrics
	logger    *slog.Logger
	source    func(models.Input) string
}

// Option configures a Runner
type Option func(*Runner)

// WithArticleSaver stores every retrieved article
func WithArticleSaver(s ArticleSaver) Option {
	return func(r *Runner) { r.articles = s }
}

// WithSinks adds record sinks
func WithSinks(sinks ...Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// WithMetrics records processing metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithSourceByID hands the retriever each input's id instead of its URL,
// for retrievers that serve stored articles named after the id
func WithSourceByID() Option {
	return func(r *Runner) {
		r.source = func(in models.Input) string { return in.ID }
	}
}

// WithLogger overrides the default logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner
func NewRunner(ret retriever.Retriever, a *analyzer.Analyzer, opts ...Option) *Runner {
	r := &Runner{
		retriever: ret,
		analyzer:  a,
		logger:    slog.Default(),
		source:    func(in models.Input) string { return in.URL },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary counts the outcome of a run
type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Result holds the records of a run in input order
type Result struct {
	Records []*models.MetricRecord
	Summary Summary
}

// Run processes inputs in order. Documents whose content cannot be retrieved
// are skipped; a sink failure or cancelled context stops the run.
func (r *Runner) Run(ctx context.Context, inputs []models.Input) (*Result, error) {
	result := &Result{}

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		r.logger.Info("processing document", "id", in.ID, "position", i)

		analysis, err := r.Process(ctx, in, i)
		var skip *SkipError
		switch {
		case errors.As(err, &skip):
			r.logger.Warn("document skipped", "id", in.ID, "url", in.URL, "error", skip.Err)
			result.Summary.Skipped++
			continue
		case err != nil:
			return result, err
		}

		result.Records = append(result.Records, &analysis.Record)
		result.Summary.Processed++
	}

	r.logger.Info("run completed",
		"processed", result.Summary.Processed,
		"skipped", result.Summary.Skipped,
	)
	return result, nil
}

// Process retrieves, analyses and stores a single input. It returns a
// *SkipError when the input yields no record.
func (r *Runner) Process(ctx context.Context, in models.Input, position int) (*models.Analysis, error) {
	start := time.Now()
	text, err := r.retriever.Retrieve(ctx, r.source(in))
	if r.metrics != nil {
		r.metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		r.count(metrics.OutcomeSkipped)
		return nil, &SkipError{ID: in.ID, Err: err}
	}

	if text != "" && r.articles != nil {
		if err := r.articles.Save(in.ID, text); err != nil {
			r.logger.Error("failed to store article text", "id", in.ID, "error", err)
		}
	}

	start = time.Now()
	record, ok := r.analyzer.AnalyzeWithContext(ctx, models.Document{ID: in.ID, Text: text})
	if r.metrics != nil {
		r.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
	if !ok {
		r.count(metrics.OutcomeSkipped)
		return nil, &SkipError{ID: in.ID, Err: retriever.ErrEmptyContent}
	}

	analysis := &models.Analysis{
		Record:    *record,
		SourceURL: in.URL,
		Position:  position,
	}
	for _, sink := range r.sinks {
		if err := sink.Write(ctx, analysis); err != nil {
			r.count(metrics.OutcomeFailed)
			return nil, fmt.Errorf("failed to write record %s: %w", in.ID, err)
		}
	}

	r.count(metrics.OutcomeRecorded)
	if r.metrics != nil {
		r.metrics.FogIndex.Observe(record.FogIndex)
	}
	return analysis, nil
}

func (r *Runner) count(outcome string) {
	if r.metrics != nil {
		r.metrics.Documents.WithLabelValues(outcome).Inc()
	}
}
