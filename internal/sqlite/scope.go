package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/slateworks/crewplan/internal/domain/scope"
	"github.com/slateworks/crewplan/internal/repository"
)

// ScopeRepository implements scope.Repository for SQLite
type ScopeRepository struct {
	db *DB
}

// NewScopeRepository creates a new ScopeRepository
func NewScopeRepository(db *DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

// Upsert inserts or replaces a scope by id.
func (r *ScopeRepository) Upsert(ctx context.Context, s *scope.Scope) error {
	query := `
		INSERT INTO project_scopes (id, job_key, title, start_date, end_date, manpower, hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_key = excluded.job_key,
			title = excluded.title,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			manpower = excluded.manpower,
			hours = excluded.hours
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.JobKey, s.Title, s.StartDate, s.EndDate, s.Manpower, s.Hours)
	if err != nil {
		return fmt.Errorf("failed to upsert scope: %w", err)
	}
	return nil
}

// Get retrieves a scope by ID
func (r *ScopeRepository) Get(ctx context.Context, id string) (*scope.Scope, error) {
	query := `
		SELECT id, job_key, title, start_date, end_date, manpower, hours
		FROM project_scopes
		WHERE id = ?
	`

	var s scope.Scope
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.JobKey, &s.Title, &s.StartDate, &s.EndDate, &s.Manpower, &s.Hours)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return &s, nil
}

// ListByJobKey returns all scopes belonging to a job key.
func (r *ScopeRepository) ListByJobKey(ctx context.Context, jobKey string) ([]scope.Scope, error) {
	query := `
		SELECT id, job_key, title, start_date, end_date, manpower, hours
		FROM project_scopes
		WHERE job_key = ?
		ORDER BY start_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, jobKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes by job key: %w", err)
	}
	defer rows.Close()
	return collectScopes(rows)
}

// ListAll returns all scopes, page-capped.
func (r *ScopeRepository) ListAll(ctx context.Context, limit, offset int) ([]scope.Scope, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT id, job_key, title, start_date, end_date, manpower, hours
		FROM project_scopes
		ORDER BY job_key, start_date, id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer rows.Close()
	return collectScopes(rows)
}

// Delete removes a scope by ID.
func (r *ScopeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_scopes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scope: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectScopes(rows *sql.Rows) ([]scope.Scope, error) {
	var scopes []scope.Scope
	for rows.Next() {
		var s scope.Scope
		err := rows.Scan(&s.ID, &s.JobKey, &s.Title, &s.StartDate, &s.EndDate, &s.Manpower, &s.Hours)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scope rows: %w", err)
	}
	return scopes, nil
}
