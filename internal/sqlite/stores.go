package sqlite

import (
	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/scope"
)

// Stores bundles one repository implementation per collection. All
// read-merge-write logic funnels through these seams; nothing above
// them knows the store technology.
type Stores struct {
	Projects   project.Repository
	Scopes     scope.Repository
	ShortTerm  schedule.ShortTermRepository
	LongTerm   schedule.LongTermRepository
	Aggregates schedule.AggregateRepository
	Sync       schedule.SyncRepository
	Active     schedule.ActiveRepository
	Tracking   schedule.TrackingRepository
}

// NewStores builds one repository per collection over a shared
// connection.
func NewStores(db *DB) Stores {
	return Stores{
		Projects:   NewProjectRepository(db),
		Scopes:     NewScopeRepository(db),
		ShortTerm:  NewShortTermRepository(db),
		LongTerm:   NewLongTermRepository(db),
		Aggregates: NewAggregateRepository(db),
		Sync:       NewSyncRepository(db),
		Active:     NewActiveRepository(db),
		Tracking:   NewTrackingRepository(db),
	}
}
