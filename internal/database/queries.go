package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/zombar/lexmetrics/internal/models"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("record not found")

const recordsTable = "metric_records"

// recordColumns lists the stored columns in scan order
var recordColumns = []string{
	"id", "positive_score", "negative_score", "polarity_score", "subjectivity_score",
	"avg_sentence_length", "pct_complex_words", "fog_index", "complex_word_count",
	"word_count", "personal_pronoun_count", "avg_word_length",
	"source_url", "position", "created_at", "updated_at",
}

// upsertSuffix refreshes every metric on re-analysis but keeps created_at
const upsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	positive_score = excluded.positive_score,
	negative_score = excluded.negative_score,
	polarity_score = excluded.polarity_score,
	subjectivity_score = excluded.subjectivity_score,
	avg_sentence_length = excluded.avg_sentence_length,
	pct_complex_words = excluded.pct_complex_words,
	fog_index = excluded.fog_index,
	complex_word_count = excluded.complex_word_count,
	word_count = excluded.word_count,
	personal_pronoun_count = excluded.personal_pronoun_count,
	avg_word_length = excluded.avg_word_length,
	source_url = excluded.source_url,
	position = excluded.position,
	updated_at = excluded.updated_at`

// SaveAnalysis inserts or replaces the stored record for analysis.Record.ID.
// On return CreatedAt holds the stored value, which an update keeps.
func (db *DB) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	now := time.Now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now

	r := analysis.Record
	query, args, err := db.builder.
		Insert(recordsTable).
		Columns(recordColumns...).
		Values(
			r.ID, r.PositiveScore, r.NegativeScore, r.PolarityScore, r.SubjectivityScore,
			r.AvgSentenceLength, r.PctComplexWords, r.FogIndex, r.ComplexWordCount,
			r.WordCount, r.PersonalPronounCount, r.AvgWordLength,
			analysis.SourceURL, analysis.Position, analysis.CreatedAt, analysis.UpdatedAt,
		).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save record %s: %w", r.ID, err)
	}

	query, args, err = db.builder.Select("created_at").From(recordsTable).Where(sq.Eq{"id": r.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&analysis.CreatedAt); err != nil {
		return fmt.Errorf("failed to read created_at for %s: %w", r.ID, err)
	}
	return nil
}

// GetAnalysis retrieves a stored record by ID
func (db *DB) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	query, args, err := db.builder.Select(recordColumns...).From(recordsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	analysis, err := scanAnalysis(db.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return analysis, nil
}

// ListAnalyses retrieves stored records, newest first, with pagination
func (db *DB) ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error) {
	q := db.builder.Select(recordColumns...).
		From(recordsTable).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return db.queryAnalyses(ctx, q)
}

// AllAnalyses retrieves every stored record in input order
func (db *DB) AllAnalyses(ctx context.Context) ([]*models.Analysis, error) {
	q := db.builder.Select(recordColumns...).
		From(recordsTable).
		OrderBy("position", "created_at", "id")
	return db.queryAnalyses(ctx, q)
}

// CountAnalyses returns the number of stored records
func (db *DB) CountAnalyses(ctx context.Context) (int, error) {
	query, args, err := db.builder.Select("COUNT(*)").From(recordsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// DeleteAnalysis deletes a stored record by ID
func (db *DB) DeleteAnalysis(ctx context.Context, id string) error {
	query, args, err := db.builder.Delete(recordsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryAnalyses(ctx context.Context, q sq.SelectBuilder) ([]*models.Analysis, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return analyses, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*models.Analysis, error) {
	var a models.Analysis
	r := &a.Record
	err := s.Scan(
		&r.ID, &r.PositiveScore, &r.NegativeScore, &r.PolarityScore, &r.SubjectivityScore,
		&r.AvgSentenceLength, &r.PctComplexWords, &r.FogIndex, &r.ComplexWordCount,
		&r.WordCount, &r.PersonalPronounCount, &r.AvgWordLength,
		&a.SourceURL, &a.Position, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Write stores analysis; it lets DB act as a pipeline sink
func (db *DB) Write(ctx context.Context, analysis *models.Analysis) error {
	return db.SaveAnalysis(ctx, analysis)
}
