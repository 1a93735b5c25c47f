package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/wip"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Canonical(ctx context.Context) ([]project.Project, error)
}

// ScheduleService defines schedule operations needed by MCP.
type ScheduleService interface {
	ListAggregates(ctx context.Context, limit, offset int) ([]schedule.Aggregate, error)
	ResolveRange(ctx context.Context, start, end time.Time) ([]schedule.Assignment, error)
	Reschedule(ctx context.Context, req schedule.RescheduleRequest) (*schedule.Aggregate, error)
}

// WIPService defines reporting operations needed by MCP.
type WIPService interface {
	Report(ctx context.Context, year int) (*wip.Report, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Schedules ScheduleService
	WIP       WIPService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "crewplan",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
