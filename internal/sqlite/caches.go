package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slateworks/crewplan/internal/domain/schedule"
)

// ActiveRepository implements schedule.ActiveRepository for SQLite.
// Rows are written only by SyncRepository.ApplySync; this is the read
// side.
type ActiveRepository struct {
	db *DB
}

// NewActiveRepository creates a new ActiveRepository
func NewActiveRepository(db *DB) *ActiveRepository {
	return &ActiveRepository{db: db}
}

// ListRange returns entries with startDay <= date <= endDay. ISO day
// keys compare lexically.
func (r *ActiveRepository) ListRange(ctx context.Context, startDay, endDay string) ([]schedule.ActiveEntry, error) {
	query := `
		SELECT job_key, scope_of_work, date, hours, source
		FROM active_schedule
		WHERE date >= ? AND date <= ?
		ORDER BY date, job_key, scope_of_work
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, startDay, endDay, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active entries: %w", err)
	}
	defer rows.Close()
	return collectActiveEntries(rows)
}

// ListByJobKey returns all cached entries for a job key.
func (r *ActiveRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.ActiveEntry, error) {
	query := `
		SELECT job_key, scope_of_work, date, hours, source
		FROM active_schedule
		WHERE job_key = ?
		ORDER BY date, scope_of_work
	`
	rows, err := r.db.QueryContext(ctx, query, jobKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list active entries by job key: %w", err)
	}
	defer rows.Close()
	return collectActiveEntries(rows)
}

func collectActiveEntries(rows *sql.Rows) ([]schedule.ActiveEntry, error) {
	var entries []schedule.ActiveEntry
	for rows.Next() {
		var e schedule.ActiveEntry
		var source string
		if err := rows.Scan(&e.JobKey, &e.ScopeOfWork, &e.Date, &e.Hours, &source); err != nil {
			return nil, fmt.Errorf("failed to scan active entry: %w", err)
		}
		e.Source = schedule.Source(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active entry rows: %w", err)
	}
	return entries, nil
}

// TrackingRepository implements schedule.TrackingRepository for SQLite.
type TrackingRepository struct {
	db *DB
}

// NewTrackingRepository creates a new TrackingRepository
func NewTrackingRepository(db *DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// ListByJobKey returns the tracking rows for a job key.
func (r *TrackingRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.Tracking, error) {
	query := `
		SELECT job_key, scope_of_work, total_hours, scheduled_hours, unscheduled_hours
		FROM scope_tracking
		WHERE job_key = ?
		ORDER BY scope_of_work
	`
	rows, err := r.db.QueryContext(ctx, query, jobKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking rows: %w", err)
	}
	defer rows.Close()
	return collectTracking(rows)
}

// ListAll returns all tracking rows, page-capped.
func (r *TrackingRepository) ListAll(ctx context.Context, limit, offset int) ([]schedule.Tracking, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT job_key, scope_of_work, total_hours, scheduled_hours, unscheduled_hours
		FROM scope_tracking
		ORDER BY job_key, scope_of_work
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking rows: %w", err)
	}
	defer rows.Close()
	return collectTracking(rows)
}

func collectTracking(rows *sql.Rows) ([]schedule.Tracking, error) {
	var tracking []schedule.Tracking
	for rows.Next() {
		var t schedule.Tracking
		if err := rows.Scan(&t.JobKey, &t.ScopeOfWork, &t.TotalHours, &t.ScheduledHours, &t.UnscheduledHours); err != nil {
			return nil, fmt.Errorf("failed to scan tracking row: %w", err)
		}
		tracking = append(tracking, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking rows: %w", err)
	}
	return tracking, nil
}
