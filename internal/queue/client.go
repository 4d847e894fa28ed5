package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TypeProcessDocument fetches a URL, analyses its text and stores the record
const TypeProcessDocument = "lexmetrics:process_document"

// QueueDocuments is the queue process-document tasks are placed on
const QueueDocuments = "documents"

// ProcessDocumentPayload represents the payload for a document task
type ProcessDocumentPayload struct {
	TaskID     string `json:"task_id"`
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
	Position   int    `json:"position,omitempty"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}),
	}
}

// NewProcessDocumentTask builds the task for id, capturing the span in ctx.
// Every task gets a fresh task id, so one document can be submitted again.
func NewProcessDocumentTask(ctx context.Context, id, url string) (*asynq.Task, error) {
	payload := ProcessDocumentPayload{
		TaskID:     uuid.NewString(),
		DocumentID: id,
		URL:        url,
		EnqueuedAt: time.Now().UnixNano(),
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		payload.TraceID = spanCtx.TraceID().String()
		payload.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeProcessDocument),
			attribute.String("task.id", payload.TaskID),
			attribute.String("document.id", id),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return asynq.NewTask(TypeProcessDocument, data, taskOptions(payload.TaskID)...), nil
}

func taskOptions(taskID string) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID(taskID),
		asynq.Queue(QueueDocuments),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		asynq.Retention(7 * 24 * time.Hour),
	}
}

// EnqueueProcessDocument enqueues retrieval and analysis of url under id
func (c *Client) EnqueueProcessDocument(ctx context.Context, id, url string) (string, error) {
	task, err := NewProcessDocumentTask(ctx, id, url)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue process document task: %w", err)
	}

	return info.ID, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}
