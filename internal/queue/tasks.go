package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/lexmetrics/internal/models"
	"github.com/zombar/lexmetrics/internal/pipeline"
	"github.com/zombar/lexmetrics/internal/retriever"
)

// handleProcessDocument retrieves and analyses one URL
func (w *Worker) handleProcessDocument(ctx context.Context, t *asynq.Task) error {
	var payload ProcessDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	ctx, span := startTaskSpan(ctx, payload, queueWaitTime)
	defer span.End()

	w.logger.Info("processing document",
		"task_id", payload.TaskID,
		"document_id", payload.DocumentID,
		"url", payload.URL,
		"queue_wait_seconds", queueWaitTime.Seconds(),
	)

	analysis, err := w.processor.Process(ctx, models.Input{ID: payload.DocumentID, URL: payload.URL}, payload.Position)
	if err != nil {
		err = classifyError(err)
		if err == nil {
			span.SetAttributes(attribute.Bool("document.skipped", true))
			w.logger.Warn("document has no content, finishing without record",
				"document_id", payload.DocumentID,
				"url", payload.URL,
			)
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Float64("fog_index", analysis.Record.FogIndex))
	w.logger.Info("document analysed",
		"document_id", payload.DocumentID,
		"word_count", analysis.Record.WordCount,
	)
	return nil
}

// startTaskSpan continues the trace captured at enqueue time, if any
func startTaskSpan(ctx context.Context, payload ProcessDocumentPayload, wait time.Duration) (context.Context, trace.Span) {
	if payload.TraceID != "" && payload.SpanID != "" {
		traceID, terr := trace.TraceIDFromHex(payload.TraceID)
		spanID, serr := trace.SpanIDFromHex(payload.SpanID)
		if terr == nil && serr == nil {
			ctx = trace.ContextWithRemoteSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    traceID,
				SpanID:     spanID,
				TraceFlags: trace.FlagsSampled,
				Remote:     true,
			}))
		}
	}

	ctx, span := otel.Tracer("lexmetrics").Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeProcessDocument),
			attribute.String("task.id", payload.TaskID),
			attribute.String("document.id", payload.DocumentID),
			attribute.String("document.url", payload.URL),
			attribute.Float64("queue.wait_time_seconds", wait.Seconds()),
		),
	)
	span.AddEvent("task_processing_started")
	return ctx, span
}

// classifyError maps a processing error to the task outcome: nil for
// documents with no content, SkipRetry for permanent failures and the error
// itself when another attempt could succeed.
func classifyError(err error) error {
	var skip *pipeline.SkipError
	if !errors.As(err, &skip) {
		return err
	}

	if errors.Is(skip.Err, retriever.ErrEmptyContent) {
		return nil
	}

	var status *retriever.StatusError
	if errors.As(skip.Err, &status) && !status.Temporary() {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	return err
}
