// Command batch analyses every URL listed in an input CSV and writes one
// metric row per document to an output CSV, in input order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zombar/lexmetrics/internal/analyzer"
	"github.com/zombar/lexmetrics/internal/config"
	"github.com/zombar/lexmetrics/internal/database"
	"github.com/zombar/lexmetrics/internal/lexicon"
	"github.com/zombar/lexmetrics/internal/pipeline"
	"github.com/zombar/lexmetrics/internal/retriever"
	"github.com/zombar/lexmetrics/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		input   = flag.String("input", "input.csv", "CSV file with URL_ID and URL columns")
		output  = flag.String("output", "output.csv", "CSV file to write metric rows to")
		store   = flag.Bool("store", false, "Also save records to the configured database")
		offline = flag.Bool("offline", false, "Read article text from the articles directory instead of fetching URLs")
	)
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *input, *output, *store, *offline, logger); err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, input, output string, store, offline bool, logger *slog.Logger) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	inputs, err := pipeline.ReadInputs(in)
	if err != nil {
		return fmt.Errorf("read input %s: %w", input, err)
	}
	logger.Info("inputs loaded", "count", len(inputs), "file", input)

	lex, stopwords, err := lexicon.Loader{Encoding: cfg.Lexicon.Encoding}.Load(cfg.Lexicon.Dir, cfg.Lexicon.StopwordsDir)
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	csvSink, err := pipeline.NewCSVSink(out)
	if err != nil {
		return fmt.Errorf("write output header: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithSinks(csvSink),
		pipeline.WithLogger(logger),
	}

	if store {
		db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, pipeline.WithSinks(db))
	}

	var ret retriever.Retriever
	if offline {
		ret = retriever.NewFileRetriever(cfg.Articles.Dir)
		opts = append(opts, pipeline.WithSourceByID())
	} else {
		articles, err := retriever.NewArticleStore(cfg.Articles.Dir)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithArticleSaver(articles))
		ret = retriever.NewHTTPRetriever(&http.Client{Timeout: cfg.Retriever.Timeout})
	}

	runner := pipeline.NewRunner(ret, analyzer.New(lex, stopwords), opts...)
	result, err := runner.Run(ctx, inputs)
	if err != nil {
		return err
	}

	logger.Info("batch complete",
		"output", output,
		"processed", result.Summary.Processed,
		"skipped", result.Summary.Skipped,
	)
	return nil
}
