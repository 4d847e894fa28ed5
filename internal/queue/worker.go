package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/zombar/lexmetrics/internal/models"
)

// Processor retrieves, analyses and stores one document
type Processor interface {
	Process(ctx context.Context, in models.Input, position int) (*models.Analysis, error)
}

// retryDelays is the backoff between attempts of a process-document task
var retryDelays = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	processor   Processor
	concurrency int
	logger      *slog.Logger
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
	Logger      *slog.Logger
}

// NewWorker creates a new queue worker
func NewWorker(cfg WorkerConfig, processor Processor) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serverCfg := asynq.Config{
		Concurrency:    cfg.Concurrency,
		Queues:         map[string]int{QueueDocuments: 1},
		RetryDelayFunc: retryDelay,
		// Graceful shutdown timeout
		ShutdownTimeout: 30 * time.Second,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			logger.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:      asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, serverCfg),
		mux:         asynq.NewServeMux(),
		processor:   processor,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
	w.mux.HandleFunc(TypeProcessDocument, w.handleProcessDocument)

	return w
}

// retryDelay returns 1m, 5m, then 15m for every later attempt
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < len(retryDelays) {
		return retryDelays[n]
	}
	return retryDelays[len(retryDelays)-1]
}

// Start runs the worker until Shutdown is called
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queue", QueueDocuments,
	)

	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
