// Package report aggregates stored metric records into corpus statistics.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zombar/lexmetrics/internal/models"
)

// Stats describes the distribution of one metric across records
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is the per-metric distribution over a set of records
type Summary struct {
	Count   int              `json:"count"`
	Metrics map[string]Stats `json:"metrics"`
}

// metricFields maps column names to the values they read from a record
var metricFields = []struct {
	name  string
	value func(models.MetricRecord) float64
}{
	{"positive_score", func(r models.MetricRecord) float64 { return float64(r.PositiveScore) }},
	{"negative_score", func(r models.MetricRecord) float64 { return float64(r.NegativeScore) }},
	{"polarity_score", func(r models.MetricRecord) float64 { return r.PolarityScore }},
	{"subjectivity_score", func(r models.MetricRecord) float64 { return r.SubjectivityScore }},
	{"avg_sentence_length", func(r models.MetricRecord) float64 { return r.AvgSentenceLength }},
	{"pct_complex_words", func(r models.MetricRecord) float64 { return r.PctComplexWords }},
	{"fog_index", func(r models.MetricRecord) float64 { return r.FogIndex }},
	{"complex_word_count", func(r models.MetricRecord) float64 { return float64(r.ComplexWordCount) }},
	{"word_count", func(r models.MetricRecord) float64 { return float64(r.WordCount) }},
	{"personal_pronoun_count", func(r models.MetricRecord) float64 { return float64(r.PersonalPronounCount) }},
	{"avg_word_length", func(r models.MetricRecord) float64 { return r.AvgWordLength }},
}

// Summarize computes mean, sample standard deviation, min and max for every
// metric. An empty input yields a zero Count and no metrics.
func Summarize(records []models.MetricRecord) Summary {
	summary := Summary{
		Count:   len(records),
		Metrics: make(map[string]Stats, len(metricFields)),
	}
	if len(records) == 0 {
		return summary
	}

	values := make([]float64, len(records))
	for _, field := range metricFields {
		for i, r := range records {
			values[i] = field.value(r)
		}

		s := Stats{
			Mean: stat.Mean(values, nil),
			Min:  floats.Min(values),
			Max:  floats.Max(values),
		}
		if len(values) > 1 {
			s.StdDev = stat.StdDev(values, nil)
		}
		if math.IsNaN(s.StdDev) {
			s.StdDev = 0
		}
		summary.Metrics[field.name] = s
	}

	return summary
}
