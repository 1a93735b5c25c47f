package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/scope"
	"github.com/slateworks/crewplan/internal/domain/wip"
	"github.com/slateworks/crewplan/internal/sqlite"
	"github.com/slateworks/crewplan/internal/transport"
)

// TestServer is a fully wired crewplan stack over an in-memory
// database, served through httptest for API-level tests.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB

	Projects  *project.Service
	Schedules *schedule.Service
	WIP       *wip.Service

	ScopeRepo *sqlite.ScopeRepository
}

// New builds the stack. Shared-cache memory DSNs keyed by test name so
// parallel tests never see each other's data.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	// scopeRepo is held separately so tests can seed and inspect
	// Gantt rows directly.
	scopeRepo := sqlite.NewScopeRepository(db)
	stores := sqlite.NewStores(db)
	stores.Scopes = scopeRepo

	projectSvc := project.NewService(stores.Projects, project.ExclusionConfig{}, nil)
	scheduleSvc := schedule.NewService(stores.Projects, scopeRepo, stores.ShortTerm, stores.LongTerm, stores.Aggregates, stores.Sync, stores.Active, stores.Tracking, nil)
	wipSvc := wip.NewService(projectSvc, scheduleSvc, nil)

	server := httptest.NewServer(transport.NewServer(transport.Services{
		Projects:  projectSvc,
		Schedules: scheduleSvc,
		WIP:       wipSvc,
	}, nil))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Projects:  projectSvc,
		Schedules: scheduleSvc,
		WIP:       wipSvc,
		ScopeRepo: scopeRepo,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// SeedProject inserts one line item with sensible defaults.
func (ts *TestServer) SeedProject(t *testing.T, req project.SaveRequest) *project.LineItem {
	t.Helper()
	if req.Estimator == "" {
		req.Estimator = "Estimator A"
	}
	li, err := ts.Projects.Save(context.Background(), req)
	require.NoError(t, err)
	return li
}

// SeedScope inserts one Gantt scope.
func (ts *TestServer) SeedScope(t *testing.T, sc scope.Scope) {
	t.Helper()
	require.NoError(t, ts.ScopeRepo.Upsert(context.Background(), &sc))
}
