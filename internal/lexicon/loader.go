package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	positiveFile = "positive-words.txt"
	negativeFile = "negative-words.txt"
)

// Encoding names accepted by the loader
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// ErrNoStopwordFiles is returned when a stop word directory holds no .txt files
var ErrNoStopwordFiles = errors.New("no stop word files found")

// Loader reads word lists from disk.
type Loader struct {
	// Encoding of the word list files, EncodingUTF8 when empty
	Encoding string
}

// LoadLexicon reads positive-words.txt and negative-words.txt from dir
func (l Loader) LoadLexicon(dir string) (*Lexicon, error) {
	positive, err := l.readWordFile(filepath.Join(dir, positiveFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load positive words: %w", err)
	}

	negative, err := l.readWordFile(filepath.Join(dir, negativeFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load negative words: %w", err)
	}

	return &Lexicon{
		Positive: NewWordSet(positive...),
		Negative: NewWordSet(negative...),
	}, nil
}

// LoadStopwords merges every .txt file in dir into one set
func (l Loader) LoadStopwords(dir string) (WordSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read stop word directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoStopwordFiles, dir)
	}
	sort.Strings(files)

	stopwords := make(WordSet)
	for _, file := range files {
		words, err := l.readWordFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load stop words from %s: %w", filepath.Base(file), err)
		}
		for _, w := range words {
			stopwords[w] = struct{}{}
		}
	}

	return stopwords, nil
}

func (l Loader) readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(l.Encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingLatin1, "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(f)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", l.Encoding)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return splitLines(raw), nil
}

// splitLines splits on \n, \r\n and \r. Lines are kept verbatim apart from
// the terminator; empty lines are dropped.
func splitLines(raw []byte) []string {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Load returns the lexicon from lexiconDir and the stop words from
// stopwordsDir. An empty directory selects the built-in list for that part.
func (l Loader) Load(lexiconDir, stopwordsDir string) (*Lexicon, WordSet, error) {
	lex := Default()
	if lexiconDir != "" {
		loaded, err := l.LoadLexicon(lexiconDir)
		if err != nil {
			return nil, nil, err
		}
		lex = loaded
	}

	stopwords := DefaultStopwords()
	if stopwordsDir != "" {
		loaded, err := l.LoadStopwords(stopwordsDir)
		if err != nil {
			return nil, nil, err
		}
		stopwords = loaded
	}

	return lex, stopwords, nil
}
