package project

import "context"

// Repository provides persistence for project line items.
type Repository interface {
	Upsert(ctx context.Context, li *LineItem) error
	Get(ctx context.Context, id string) (*LineItem, error)
	List(ctx context.Context, opts ListOptions) ([]LineItem, error)
	ListByJobKey(ctx context.Context, jobKey string) ([]LineItem, error)
}

// ListOptions filters line-item listings. Limit defaults to the
// repository's page cap when zero; callers must not assume unbounded
// reads.
type ListOptions struct {
	Statuses        []Status
	IncludeArchived bool
	Limit           int
	Offset          int
}
