package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoadLexicon(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "positive-words.txt", []byte("good\ngreat\r\nlove\n\n"))
	writeFile(t, dir, "negative-words.txt", []byte("bad\rawful\n"))

	lex, err := Loader{}.LoadLexicon(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, lex.Positive.Len())
	assert.True(t, lex.Positive.Contains("great"))
	assert.True(t, lex.Positive.Contains("love"))
	assert.Equal(t, 2, lex.Negative.Len())
	assert.True(t, lex.Negative.Contains("awful"))
	assert.False(t, lex.Negative.Contains(""))
}

func TestLoadLexiconMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "positive-words.txt", []byte("good\n"))

	_, err := Loader{}.LoadLexicon(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative words")
}

func TestLoadLexiconLatin1(t *testing.T) {
	dir := t.TempDir()
	// "café" with é encoded as a single latin1 byte
	writeFile(t, dir, "positive-words.txt", []byte{'c', 'a', 'f', 0xe9, '\n'})
	writeFile(t, dir, "negative-words.txt", []byte("bad\n"))

	lex, err := Loader{Encoding: EncodingLatin1}.LoadLexicon(dir)
	require.NoError(t, err)
	assert.True(t, lex.Positive.Contains("café"))
}

func TestLoadLexiconUnsupportedEncoding(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "positive-words.txt", []byte("good\n"))
	writeFile(t, dir, "negative-words.txt", []byte("bad\n"))

	_, err := Loader{Encoding: "ebcdic"}.LoadLexicon(dir)
	assert.Error(t, err)
}

func TestLoadStopwords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "StopWords_Generic.txt", []byte("the\nand\n"))
	writeFile(t, dir, "StopWords_Names.txt", []byte("smith\nthe\n"))
	writeFile(t, dir, "README.md", []byte("ignored\n"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	stopwords, err := Loader{}.LoadStopwords(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, stopwords.Len())
	assert.True(t, stopwords.Contains("smith"))
	assert.False(t, stopwords.Contains("ignored"))
}

func TestLoadStopwordsEmptyDir(t *testing.T) {
	_, err := Loader{}.LoadStopwords(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoStopwordFiles))
}

func TestWordSetCaseSensitive(t *testing.T) {
	set := NewWordSet("Good", "good")
	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Contains("GOOD"))

	merged := set.Union(NewWordSet("bad"))
	assert.Equal(t, 3, merged.Len())
	assert.Equal(t, 2, set.Len())
}

func TestDefaults(t *testing.T) {
	lex := Default()
	assert.True(t, lex.Positive.Contains("good"))
	assert.True(t, lex.Negative.Contains("bad"))
	assert.True(t, DefaultStopwords().Contains("the"))
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	stopDir := t.TempDir()
	writeFile(t, stopDir, "StopWords_Auditor.txt", []byte("ERNST\n"))

	lex, stopwords, err := Loader{}.Load("", stopDir)
	require.NoError(t, err)
	assert.Equal(t, Default().Positive.Len(), lex.Positive.Len())
	assert.Equal(t, 1, stopwords.Len())
	assert.True(t, stopwords.Contains("ERNST"))

	_, stopwords, err = Loader{}.Load("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultStopwords().Len(), stopwords.Len())

	_, _, err = Loader{}.Load(t.TempDir(), "")
	assert.Error(t, err, "an explicit lexicon directory must contain both lists")
}
