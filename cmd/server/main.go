package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/lexmetrics/internal/analyzer"
	"github.com/zombar/lexmetrics/internal/api"
	"github.com/zombar/lexmetrics/internal/config"
	"github.com/zombar/lexmetrics/internal/database"
	"github.com/zombar/lexmetrics/internal/lexicon"
	"github.com/zombar/lexmetrics/internal/metrics"
	"github.com/zombar/lexmetrics/internal/pipeline"
	"github.com/zombar/lexmetrics/internal/queue"
	"github.com/zombar/lexmetrics/internal/retriever"
	"github.com/zombar/lexmetrics/internal/tracing"
	"github.com/zombar/lexmetrics/pkg/logging"
)

const metricsNamespace = "lexmetrics"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		port      = flag.String("port", cfg.Server.Port, "Server port (env: PORT)")
		dbDriver  = flag.String("db-driver", cfg.Database.Driver, "Database driver, sqlite or postgres (env: DB_DRIVER)")
		dbDSN     = flag.String("db", cfg.Database.DSN, "Database file path or connection string (env: DB_DSN)")
		redisAddr = flag.String("redis", cfg.Queue.RedisAddr, "Redis address for the document queue, empty disables it (env: REDIS_ADDR)")
	)
	flag.Parse()

	logger := logging.New(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("lexmetrics service initializing", "version", "1.0.0")

	ctx := context.Background()

	tp, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized", "endpoint", cfg.Tracing.Endpoint)
	}

	db, err := database.New(*dbDriver, *dbDSN)
	if err != nil {
		logger.Error("failed to initialize database", "error", err, "driver", *dbDriver)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	reg := newRegistry()
	m := metrics.New(metricsNamespace, reg)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			m.UpdateDBStats(db.Conn())
		}
	}()

	lex, stopwords, err := lexicon.Loader{Encoding: cfg.Lexicon.Encoding}.Load(cfg.Lexicon.Dir, cfg.Lexicon.StopwordsDir)
	if err != nil {
		logger.Error("failed to load word lists", "error", err)
		os.Exit(1)
	}
	logger.Info("word lists loaded",
		"positive", lex.Positive.Len(),
		"negative", lex.Negative.Len(),
		"stopwords", stopwords.Len(),
	)
	textAnalyzer := analyzer.New(lex, stopwords)

	var queueClient api.QueueClient
	var worker *queue.Worker
	if *redisAddr != "" {
		articles, err := retriever.NewArticleStore(cfg.Articles.Dir)
		if err != nil {
			logger.Error("failed to prepare articles directory", "error", err)
			os.Exit(1)
		}

		httpClient := &http.Client{
			Timeout:   cfg.Retriever.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		runner := pipeline.NewRunner(retriever.NewHTTPRetriever(httpClient), textAnalyzer,
			pipeline.WithArticleSaver(articles),
			pipeline.WithSinks(db),
			pipeline.WithMetrics(m),
			pipeline.WithLogger(logger),
		)

		client := queue.NewClient(queue.ClientConfig{RedisAddr: *redisAddr})
		defer client.Close()
		queueClient = client

		worker = queue.NewWorker(queue.WorkerConfig{
			RedisAddr:   *redisAddr,
			Concurrency: cfg.Queue.Concurrency,
			Logger:      logger,
		}, runner)
		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("queue worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("no redis address configured, URL submissions disabled")
	}

	apiHandler := api.NewHandler(db, textAnalyzer, queueClient,
		api.WithMetrics(m),
		api.WithGatherer(reg),
		api.WithLogger(logger),
	)

	// HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("lexmetrics")(apiHandler),
	)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("lexmetrics service starting",
			"port", *port,
			"database_driver", *dbDriver,
			"queue_enabled", queueClient != nil,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if worker != nil {
		worker.Shutdown()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newRegistry returns a registry with the Go runtime and process collectors
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
