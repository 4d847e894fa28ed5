package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/lexmetrics/internal/config"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			io.WriteString(w, "<html><body><p>I love this product.</p><p>It works great!</p></body></html>")
		case "/empty":
			io.WriteString(w, "<html><body><div>no paragraphs</div></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"URL_ID,URL\n"+
			"doc1,"+srv.URL+"/good\n"+
			"doc2,"+srv.URL+"/empty\n"+
			"doc3,"+srv.URL+"/missing\n"), 0o644))

	cfg := config.Default()
	cfg.Articles.Dir = filepath.Join(dir, "articles")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, run(context.Background(), cfg, input, output, false, false, logger))

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2, "header plus the one document with content")
	assert.True(t, strings.HasPrefix(lines[0], "URL_ID,"))
	assert.True(t, strings.HasPrefix(lines[1], "doc1,"))

	article, err := os.ReadFile(filepath.Join(cfg.Articles.Dir, "doc1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "I love this product. It works great!", string(article))

	// A second run reads the stored articles without touching the network.
	srv.Close()
	offlineOutput := filepath.Join(dir, "offline.csv")
	require.NoError(t, run(context.Background(), cfg, input, offlineOutput, false, true, logger))

	offline, err := os.ReadFile(offlineOutput)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(offline))
}

func TestRunOfflineSharedURL(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Articles.Dir = filepath.Join(dir, "articles")
	require.NoError(t, os.MkdirAll(cfg.Articles.Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Articles.Dir, "a.txt"), []byte("good good day"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Articles.Dir, "b.txt"), []byte("bad day"), 0o644))

	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"URL_ID,URL\n"+
			"a,https://example.com/same\n"+
			"b,https://example.com/same\n"), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(context.Background(), cfg, input, output, false, true, logger))

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "a,2,0,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "b,0,1,"), lines[2])
}

func TestRunMissingInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), config.Default(), filepath.Join(t.TempDir(), "nope.csv"), "out.csv", false, false, logger)
	assert.Error(t, err)
}
