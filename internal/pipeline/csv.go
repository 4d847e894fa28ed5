package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/zombar/lexmetrics/internal/models"
)

// Header is the exported column order
var Header = []string{
	"URL_ID", "Positive Score", "Negative Score", "Polarity Score", "Subjectivity Score",
	"Avg Sentence Length", "% of Complex Words", "Fog Index", "Complex Word Count",
	"Word Count", "Personal Pronouns", "Avg Word Length",
}

// Row formats a record in Header order
func Row(r models.MetricRecord) []string {
	return []string{
		r.ID,
		strconv.Itoa(r.PositiveScore),
		strconv.Itoa(r.NegativeScore),
		formatFloat(r.PolarityScore),
		formatFloat(r.SubjectivityScore),
		formatFloat(r.AvgSentenceLength),
		formatFloat(r.PctComplexWords),
		formatFloat(r.FogIndex),
		strconv.Itoa(r.ComplexWordCount),
		strconv.Itoa(r.WordCount),
		strconv.Itoa(r.PersonalPronounCount),
		formatFloat(r.AvgWordLength),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CSVSink writes one row per record. The header is written on creation.
type CSVSink struct {
	mu sync.Mutex
	w  *csv.Writer
}

// NewCSVSink writes the header to w
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	cw.Flush()
	return &CSVSink{w: cw}, cw.Error()
}

// Write appends analysis as a row
func (s *CSVSink) Write(_ context.Context, analysis *models.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Write(Row(analysis.Record)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// WriteCSV writes the header and every record to w
func WriteCSV(w io.Writer, records []models.MetricRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ErrMissingURLColumn is returned when the input header has no URL column
var ErrMissingURLColumn = errors.New("input has no URL column")

// ReadInputs parses a CSV list with URL_ID and URL columns. Column names are
// matched case-insensitively; rows without an id get "Unknown_<row index>".
func ReadInputs(r io.Reader) ([]models.Input, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idCol, urlCol := -1, -1
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "URL_ID":
			idCol = i
		case "URL":
			urlCol = i
		}
	}
	if urlCol < 0 {
		return nil, ErrMissingURLColumn
	}

	var inputs []models.Input
	for index := 0; ; index++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", index, err)
		}

		in := models.Input{
			ID:  field(row, idCol),
			URL: field(row, urlCol),
		}
		if in.ID == "" {
			in.ID = fmt.Sprintf("Unknown_%d", index)
		}
		inputs = append(inputs, in)
	}

	return inputs, nil
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
