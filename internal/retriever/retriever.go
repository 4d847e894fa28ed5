// Package retriever fetches document text for the analyzer and keeps a copy
// of every extracted article on disk.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyContent is returned when a page yields no paragraph text
var ErrEmptyContent = errors.New("no content extracted")

const userAgent = "lexmetrics/1.0"

// Retriever returns the raw text for a document source
type Retriever interface {
	Retrieve(ctx context.Context, source string) (string, error)
}

// HTTPRetriever downloads an HTML page and joins the text of its <p> elements.
type HTTPRetriever struct {
	client *http.Client
}

// NewHTTPRetriever wires an HTTP client; a nil client gets a 30s timeout
func NewHTTPRetriever(client *http.Client) *HTTPRetriever {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPRetriever{client: client}
}

// Retrieve fetches url and returns its paragraph text
func (h *HTTPRetriever) Retrieve(ctx context.Context, url string) (string, error) {
	doc, err := h.fetchDocument(ctx, url)
	if err != nil {
		return "", err
	}

	text := ExtractParagraphs(doc)
	if text == "" {
		return "", fmt.Errorf("%s: %w", url, ErrEmptyContent)
	}
	return text, nil
}

func (h *HTTPRetriever) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// ExtractParagraphs joins the text of every <p> element with a single space
func ExtractParagraphs(doc *goquery.Document) string {
	paragraphs := doc.Find("p").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	return strings.Join(paragraphs, " ")
}

// StatusError reports a response outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.URL, e.Status)
}

// Temporary reports whether retrying the request could succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// FileRetriever reads previously stored articles from <dir>/<id>.txt
type FileRetriever struct {
	dir string
}

// NewFileRetriever creates a FileRetriever rooted at dir
func NewFileRetriever(dir string) *FileRetriever {
	return &FileRetriever{dir: dir}
}

// Retrieve returns the stored text for id
func (f *FileRetriever) Retrieve(_ context.Context, id string) (string, error) {
	raw, err := os.ReadFile(articlePath(f.dir, id))
	if err != nil {
		return "", fmt.Errorf("read article %s: %w", id, err)
	}
	return string(raw), nil
}

// ArticleStore saves extracted article text as <dir>/<id>.txt
type ArticleStore struct {
	dir string
}

// NewArticleStore creates the directory if needed
func NewArticleStore(dir string) (*ArticleStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create articles directory: %w", err)
	}
	return &ArticleStore{dir: dir}, nil
}

// Save writes text for id, replacing any earlier copy
func (s *ArticleStore) Save(id, text string) error {
	if err := os.WriteFile(articlePath(s.dir, id), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to save article %s: %w", id, err)
	}
	return nil
}

// Dir returns the storage directory
func (s *ArticleStore) Dir() string {
	return s.dir
}

func articlePath(dir, id string) string {
	return filepath.Join(dir, filepath.Base(id)+".txt")
}
