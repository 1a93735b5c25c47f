package scope

import "context"

// Repository provides persistence for project scopes.
type Repository interface {
	Upsert(ctx context.Context, s *Scope) error
	Get(ctx context.Context, id string) (*Scope, error)
	ListByJobKey(ctx context.Context, jobKey string) ([]Scope, error)
	ListAll(ctx context.Context, limit, offset int) ([]Scope, error)
	Delete(ctx context.Context, id string) error
}
