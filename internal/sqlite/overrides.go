package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/repository"
)

// ShortTermRepository implements schedule.ShortTermRepository for SQLite.
// Each row is one (job_key, month) document with its weeks as JSON.
type ShortTermRepository struct {
	db *DB
}

// NewShortTermRepository creates a new ShortTermRepository
func NewShortTermRepository(db *DB) *ShortTermRepository {
	return &ShortTermRepository{db: db}
}

// Upsert replaces the document for (jobKey, month). An empty key part
// would store an orphan document no resolve window can date.
func (r *ShortTermRepository) Upsert(ctx context.Context, doc *schedule.ShortTermDoc) error {
	if strings.TrimSpace(doc.JobKey) == "" || strings.TrimSpace(doc.Month) == "" {
		return repository.ErrInvalidInput
	}
	weeks, err := json.Marshal(doc.Weeks)
	if err != nil {
		return fmt.Errorf("failed to encode short-term weeks: %w", err)
	}
	query := `
		INSERT INTO short_term_schedules (job_key, month, weeks)
		VALUES (?, ?, ?)
		ON CONFLICT(job_key, month) DO UPDATE SET weeks = excluded.weeks
	`
	if _, err := r.db.ExecContext(ctx, query, doc.JobKey, doc.Month, string(weeks)); err != nil {
		return fmt.Errorf("failed to upsert short-term doc: %w", err)
	}
	return nil
}

// Get retrieves the document for (jobKey, month).
func (r *ShortTermRepository) Get(ctx context.Context, jobKey, month string) (*schedule.ShortTermDoc, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT weeks FROM short_term_schedules WHERE job_key = ? AND month = ?`,
		jobKey, month).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get short-term doc: %w", err)
	}
	doc := &schedule.ShortTermDoc{JobKey: jobKey, Month: month}
	if err := json.Unmarshal([]byte(raw), &doc.Weeks); err != nil {
		return nil, fmt.Errorf("failed to decode short-term weeks: %w", err)
	}
	return doc, nil
}

// ListByJobKey returns all months stored for a job key.
func (r *ShortTermRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.ShortTermDoc, error) {
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM short_term_schedules WHERE job_key = ? ORDER BY month`,
		jobKey)
}

// ListByMonths returns all documents for the given months.
func (r *ShortTermRepository) ListByMonths(ctx context.Context, months []string) ([]schedule.ShortTermDoc, error) {
	if len(months) == 0 {
		return nil, nil
	}
	placeholders, args := monthArgs(months)
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM short_term_schedules WHERE month IN (`+placeholders+`) ORDER BY job_key, month`,
		args...)
}

// ListAll returns every stored document.
func (r *ShortTermRepository) ListAll(ctx context.Context) ([]schedule.ShortTermDoc, error) {
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM short_term_schedules ORDER BY job_key, month LIMIT ?`,
		defaultListLimit)
}

func (r *ShortTermRepository) query(ctx context.Context, query string, args ...any) ([]schedule.ShortTermDoc, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list short-term docs: %w", err)
	}
	defer rows.Close()

	var docs []schedule.ShortTermDoc
	for rows.Next() {
		var doc schedule.ShortTermDoc
		var raw string
		if err := rows.Scan(&doc.JobKey, &doc.Month, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan short-term doc: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &doc.Weeks); err != nil {
			return nil, fmt.Errorf("failed to decode short-term weeks: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short-term rows: %w", err)
	}
	return docs, nil
}

// LongTermRepository implements schedule.LongTermRepository for SQLite.
type LongTermRepository struct {
	db *DB
}

// NewLongTermRepository creates a new LongTermRepository
func NewLongTermRepository(db *DB) *LongTermRepository {
	return &LongTermRepository{db: db}
}

// Upsert replaces the document for (jobKey, month).
func (r *LongTermRepository) Upsert(ctx context.Context, doc *schedule.LongTermDoc) error {
	if strings.TrimSpace(doc.JobKey) == "" || strings.TrimSpace(doc.Month) == "" {
		return repository.ErrInvalidInput
	}
	weeks, err := json.Marshal(doc.Weeks)
	if err != nil {
		return fmt.Errorf("failed to encode long-term weeks: %w", err)
	}
	query := `
		INSERT INTO long_term_schedules (job_key, month, weeks)
		VALUES (?, ?, ?)
		ON CONFLICT(job_key, month) DO UPDATE SET weeks = excluded.weeks
	`
	if _, err := r.db.ExecContext(ctx, query, doc.JobKey, doc.Month, string(weeks)); err != nil {
		return fmt.Errorf("failed to upsert long-term doc: %w", err)
	}
	return nil
}

// Get retrieves the document for (jobKey, month).
func (r *LongTermRepository) Get(ctx context.Context, jobKey, month string) (*schedule.LongTermDoc, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT weeks FROM long_term_schedules WHERE job_key = ? AND month = ?`,
		jobKey, month).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get long-term doc: %w", err)
	}
	doc := &schedule.LongTermDoc{JobKey: jobKey, Month: month}
	if err := json.Unmarshal([]byte(raw), &doc.Weeks); err != nil {
		return nil, fmt.Errorf("failed to decode long-term weeks: %w", err)
	}
	return doc, nil
}

// ListByJobKey returns all months stored for a job key.
func (r *LongTermRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.LongTermDoc, error) {
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM long_term_schedules WHERE job_key = ? ORDER BY month`,
		jobKey)
}

// ListByMonths returns all documents for the given months.
func (r *LongTermRepository) ListByMonths(ctx context.Context, months []string) ([]schedule.LongTermDoc, error) {
	if len(months) == 0 {
		return nil, nil
	}
	placeholders, args := monthArgs(months)
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM long_term_schedules WHERE month IN (`+placeholders+`) ORDER BY job_key, month`,
		args...)
}

// ListAll returns every stored document.
func (r *LongTermRepository) ListAll(ctx context.Context) ([]schedule.LongTermDoc, error) {
	return r.query(ctx,
		`SELECT job_key, month, weeks FROM long_term_schedules ORDER BY job_key, month LIMIT ?`,
		defaultListLimit)
}

func (r *LongTermRepository) query(ctx context.Context, query string, args ...any) ([]schedule.LongTermDoc, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list long-term docs: %w", err)
	}
	defer rows.Close()

	var docs []schedule.LongTermDoc
	for rows.Next() {
		var doc schedule.LongTermDoc
		var raw string
		if err := rows.Scan(&doc.JobKey, &doc.Month, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan long-term doc: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &doc.Weeks); err != nil {
			return nil, fmt.Errorf("failed to decode long-term weeks: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating long-term rows: %w", err)
	}
	return docs, nil
}

func monthArgs(months []string) (string, []any) {
	placeholders := make([]string, len(months))
	args := make([]any, len(months))
	for i, m := range months {
		placeholders[i] = "?"
		args[i] = m
	}
	return strings.Join(placeholders, ", "), args
}
