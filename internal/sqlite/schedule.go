package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/repository"
)

// AggregateRepository implements schedule.AggregateRepository for SQLite
type AggregateRepository struct {
	db *DB
}

// NewAggregateRepository creates a new AggregateRepository
func NewAggregateRepository(db *DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// Get retrieves the aggregate for a job key.
func (r *AggregateRepository) Get(ctx context.Context, jobKey string) (*schedule.Aggregate, error) {
	row := r.db.QueryRowContext(ctx, aggregateSelect+` WHERE job_key = ?`, jobKey)
	agg, err := scanAggregate(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return agg, nil
}

// List returns all aggregates, page-capped.
func (r *AggregateRepository) List(ctx context.Context, limit, offset int) ([]schedule.Aggregate, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, aggregateSelect+` ORDER BY job_key LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var aggs []schedule.Aggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		aggs = append(aggs, *agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}
	return aggs, nil
}

// Upsert writes the aggregate, enforcing the expected revision so a
// concurrent writer surfaces as repository.ErrConflict. The current
// revision is re-read inside the transaction, never from a cached copy.
func (r *AggregateRepository) Upsert(ctx context.Context, agg *schedule.Aggregate, expectedRevision int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertAggregateTx(ctx, tx, agg, expectedRevision); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SyncRepository implements schedule.SyncRepository for SQLite: the
// aggregate, the active-schedule cache and the scope tracking rows for
// one job key land in a single transaction.
type SyncRepository struct {
	db *DB
}

// NewSyncRepository creates a new SyncRepository
func NewSyncRepository(db *DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// ApplySync writes the batch atomically.
func (r *SyncRepository) ApplySync(ctx context.Context, batch schedule.SyncBatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertAggregateTx(ctx, tx, &batch.Aggregate, batch.ExpectedRevision); err != nil {
		return err
	}

	jobKey := batch.Aggregate.JobKey
	if _, err := tx.ExecContext(ctx, `DELETE FROM active_schedule WHERE job_key = ?`, jobKey); err != nil {
		return fmt.Errorf("failed to clear active schedule: %w", err)
	}
	for _, e := range batch.ActiveEntries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO active_schedule (job_key, scope_of_work, date, hours, source) VALUES (?, ?, ?, ?, ?)`,
			e.JobKey, e.ScopeOfWork, e.Date, e.Hours, string(e.Source))
		if err != nil {
			return fmt.Errorf("failed to insert active entry: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scope_tracking WHERE job_key = ?`, jobKey); err != nil {
		return fmt.Errorf("failed to clear scope tracking: %w", err)
	}
	for _, t := range batch.Tracking {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scope_tracking (job_key, scope_of_work, total_hours, scheduled_hours, unscheduled_hours)
			 VALUES (?, ?, ?, ?, ?)`,
			t.JobKey, t.ScopeOfWork, t.TotalHours, t.ScheduledHours, t.UnscheduledHours)
		if err != nil {
			return fmt.Errorf("failed to insert tracking row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertAggregateTx(ctx context.Context, tx *sql.Tx, agg *schedule.Aggregate, expectedRevision int64) error {
	var current int64
	err := tx.QueryRowContext(ctx, `SELECT revision FROM schedules WHERE job_key = ?`, agg.JobKey).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		if expectedRevision != 0 {
			return repository.ErrConflict
		}
	case err != nil:
		return fmt.Errorf("failed to read schedule revision: %w", err)
	default:
		if current != expectedRevision {
			return repository.ErrConflict
		}
	}

	allocations, err := json.Marshal(agg.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}
	updatedAt := agg.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO schedules (job_key, doc_key, customer, project_number, project_name,
			status, total_hours, allocations, revision, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_key) DO UPDATE SET
			doc_key = excluded.doc_key,
			customer = excluded.customer,
			project_number = excluded.project_number,
			project_name = excluded.project_name,
			status = excluded.status,
			total_hours = excluded.total_hours,
			allocations = excluded.allocations,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		agg.JobKey, agg.DocKey, agg.Customer, agg.ProjectNumber, agg.ProjectName,
		agg.Status, agg.TotalHours, string(allocations), agg.Revision, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}

const aggregateSelect = `
	SELECT job_key, doc_key, customer, project_number, project_name,
		status, total_hours, allocations, revision, updated_at
	FROM schedules`

func scanAggregate(row rowScanner) (*schedule.Aggregate, error) {
	var agg schedule.Aggregate
	var allocations string
	err := row.Scan(
		&agg.JobKey,
		&agg.DocKey,
		&agg.Customer,
		&agg.ProjectNumber,
		&agg.ProjectName,
		&agg.Status,
		&agg.TotalHours,
		&allocations,
		&agg.Revision,
		&agg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(allocations), &agg.Allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}
	return &agg, nil
}
