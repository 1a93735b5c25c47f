package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/repository"
)

// defaultListLimit caps unbounded list reads; the document-store query
// limits the original relied on are preserved client-side.
const defaultListLimit = 1000

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Upsert inserts or replaces a line item by id, recomputing its job key.
func (r *ProjectRepository) Upsert(ctx context.Context, li *project.LineItem) error {
	query := `
		INSERT INTO projects (id, job_key, customer, project_number, project_name,
			scope_of_work, status, sales, cost, hours, estimator,
			date_created, date_updated, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_key = excluded.job_key,
			customer = excluded.customer,
			project_number = excluded.project_number,
			project_name = excluded.project_name,
			scope_of_work = excluded.scope_of_work,
			status = excluded.status,
			sales = excluded.sales,
			cost = excluded.cost,
			hours = excluded.hours,
			estimator = excluded.estimator,
			date_created = excluded.date_created,
			date_updated = excluded.date_updated,
			archived = excluded.archived
	`

	_, err := r.db.ExecContext(ctx, query,
		li.ID,
		li.JobKey(),
		li.Customer,
		li.ProjectNumber,
		li.ProjectName,
		li.ScopeOfWork,
		string(li.Status),
		li.Sales,
		li.Cost,
		li.Hours,
		li.Estimator,
		li.DateCreated,
		li.DateUpdated,
		boolToInt(li.Archived),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert line item: %w", err)
	}
	return nil
}

// Get retrieves a line item by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.LineItem, error) {
	query := lineItemSelect + ` WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	li, err := scanLineItem(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return li, nil
}

// List returns line items with optional status filtering.
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.LineItem, error) {
	var conds []string
	var args []any
	if !opts.IncludeArchived {
		conds = append(conds, "archived = 0")
	}
	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := lineItemSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY job_key, id LIMIT ? OFFSET ?"
	args = append(args, limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()
	return collectLineItems(rows)
}

// ListByJobKey returns every line item sharing a job key.
func (r *ProjectRepository) ListByJobKey(ctx context.Context, jobKey string) ([]project.LineItem, error) {
	query := lineItemSelect + ` WHERE job_key = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, jobKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items by job key: %w", err)
	}
	defer rows.Close()
	return collectLineItems(rows)
}

const lineItemSelect = `
	SELECT id, customer, project_number, project_name, scope_of_work,
		status, sales, cost, hours, estimator, date_created, date_updated, archived
	FROM projects`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLineItem(row rowScanner) (*project.LineItem, error) {
	var li project.LineItem
	var status string
	var archived int
	err := row.Scan(
		&li.ID,
		&li.Customer,
		&li.ProjectNumber,
		&li.ProjectName,
		&li.ScopeOfWork,
		&status,
		&li.Sales,
		&li.Cost,
		&li.Hours,
		&li.Estimator,
		&li.DateCreated,
		&li.DateUpdated,
		&archived,
	)
	if err != nil {
		return nil, err
	}
	li.Status = project.Status(status)
	li.Archived = archived != 0
	return &li, nil
}

func collectLineItems(rows *sql.Rows) ([]project.LineItem, error) {
	var items []project.LineItem
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, *li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", err)
	}
	return items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
