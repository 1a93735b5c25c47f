package schedule

import "context"

// ShortTermRepository manages the daily override grid documents, one
// per (jobKey, month).
type ShortTermRepository interface {
	Upsert(ctx context.Context, doc *ShortTermDoc) error
	Get(ctx context.Context, jobKey, month string) (*ShortTermDoc, error)
	ListByJobKey(ctx context.Context, jobKey string) ([]ShortTermDoc, error)
	ListByMonths(ctx context.Context, months []string) ([]ShortTermDoc, error)
	ListAll(ctx context.Context) ([]ShortTermDoc, error)
}

// LongTermRepository manages the weekly-bucket override documents, one
// per (jobKey, month).
type LongTermRepository interface {
	Upsert(ctx context.Context, doc *LongTermDoc) error
	Get(ctx context.Context, jobKey, month string) (*LongTermDoc, error)
	ListByJobKey(ctx context.Context, jobKey string) ([]LongTermDoc, error)
	ListByMonths(ctx context.Context, months []string) ([]LongTermDoc, error)
	ListAll(ctx context.Context) ([]LongTermDoc, error)
}

// AggregateRepository manages the reconciled "schedules" records.
// Upsert enforces the caller's expected revision so concurrent edits
// surface as repository.ErrConflict instead of silently losing.
type AggregateRepository interface {
	Get(ctx context.Context, jobKey string) (*Aggregate, error)
	List(ctx context.Context, limit, offset int) ([]Aggregate, error)
	Upsert(ctx context.Context, agg *Aggregate, expectedRevision int64) error
}

// SyncBatch is one job key's full derived state, written atomically.
type SyncBatch struct {
	Aggregate        Aggregate
	ExpectedRevision int64
	ActiveEntries    []ActiveEntry
	Tracking         []Tracking
}

// SyncRepository applies a recompute result. Implementations write the
// aggregate, the active-schedule cache and the scope tracking rows in
// a single transaction so readers never observe a half-synced job.
type SyncRepository interface {
	ApplySync(ctx context.Context, batch SyncBatch) error
}

// ActiveRepository reads the derived per-date cache.
type ActiveRepository interface {
	ListRange(ctx context.Context, startDay, endDay string) ([]ActiveEntry, error)
	ListByJobKey(ctx context.Context, jobKey string) ([]ActiveEntry, error)
}

// TrackingRepository reads the per-scope scheduled/unscheduled rows.
type TrackingRepository interface {
	ListByJobKey(ctx context.Context, jobKey string) ([]Tracking, error)
	ListAll(ctx context.Context, limit, offset int) ([]Tracking, error)
}
