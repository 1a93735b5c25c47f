package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Idempotent setup for both startup
// and tests.
func (db *DB) RunMigrations() error {
	migration := `
-- Project line items: one row per cost category. A dashboard project
-- is the aggregation of all rows sharing a job_key.
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    job_key TEXT NOT NULL,
    customer TEXT NOT NULL,
    project_number TEXT NOT NULL DEFAULT '',
    project_name TEXT NOT NULL,
    scope_of_work TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    sales REAL NOT NULL DEFAULT 0,
    cost REAL NOT NULL DEFAULT 0,
    hours REAL NOT NULL DEFAULT 0,
    estimator TEXT NOT NULL DEFAULT '',
    date_created TEXT NOT NULL DEFAULT '',
    date_updated TEXT NOT NULL DEFAULT '',
    archived INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_projects_job_key ON projects(job_key);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

-- Gantt scopes. Dates stay TEXT: unparsable values mean the scope
-- sits out of date-based allocation rather than erroring.
CREATE TABLE IF NOT EXISTS project_scopes (
    id TEXT PRIMARY KEY,
    job_key TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL DEFAULT '',
    end_date TEXT NOT NULL DEFAULT '',
    manpower REAL NOT NULL DEFAULT 0,
    hours REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_scopes_job_key ON project_scopes(job_key);

-- Short-term daily override grid: one document per (job_key, month),
-- weeks stored as JSON.
CREATE TABLE IF NOT EXISTS short_term_schedules (
    job_key TEXT NOT NULL,
    month TEXT NOT NULL,
    weeks TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (job_key, month)
);
CREATE INDEX IF NOT EXISTS idx_short_term_month ON short_term_schedules(month);

-- Long-term weekly buckets, same document shape.
CREATE TABLE IF NOT EXISTS long_term_schedules (
    job_key TEXT NOT NULL,
    month TEXT NOT NULL,
    weeks TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (job_key, month)
);
CREATE INDEX IF NOT EXISTS idx_long_term_month ON long_term_schedules(month);

-- Reconciled schedule aggregates. allocations holds either the hour
-- map or the legacy percent list; revision backs the write-race check.
CREATE TABLE IF NOT EXISTS schedules (
    job_key TEXT PRIMARY KEY,
    doc_key TEXT NOT NULL,
    customer TEXT NOT NULL DEFAULT '',
    project_number TEXT NOT NULL DEFAULT '',
    project_name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    total_hours REAL NOT NULL DEFAULT 0,
    allocations TEXT NOT NULL DEFAULT '{}',
    revision INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_schedules_doc_key ON schedules(doc_key);

-- Derived per-date cache for range queries.
CREATE TABLE IF NOT EXISTS active_schedule (
    job_key TEXT NOT NULL,
    scope_of_work TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    hours REAL NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (job_key, scope_of_work, date)
);
CREATE INDEX IF NOT EXISTS idx_active_date ON active_schedule(date);

-- Derived per-scope scheduled/unscheduled tracking.
CREATE TABLE IF NOT EXISTS scope_tracking (
    job_key TEXT NOT NULL,
    scope_of_work TEXT NOT NULL DEFAULT '',
    total_hours REAL NOT NULL DEFAULT 0,
    scheduled_hours REAL NOT NULL DEFAULT 0,
    unscheduled_hours REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (job_key, scope_of_work)
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
