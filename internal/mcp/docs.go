package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `crewplan tracks construction labor scheduling: projects, scope-of-work date ranges, and the reconciled hour allocations derived from them.

Core concepts:
- Project: deduplicated line items keyed by customer~number~name, with summed sales, cost, and hours.
- Scope: a dated piece of work. Daily hours come from manpower (crew size x 10 hrs/day) when set, otherwise total hours spread over workdays. Weekends and holidays get nothing.
- Assignment: one job's hours on one day after override precedence is applied. A written day always wins, including an explicit zero (a cleared day).
- Schedule record: the per-job aggregate with monthly allocations and a revision counter. Concurrent writes surface as REVISION_CONFLICT.

Workflow:
1) Orient with list_projects or list_schedules.
2) Read the crew board with get_assignments over a date window.
3) For reporting, call wip_report (optionally scoped to a year).
4) Manual schedule writes go through reschedule; on REVISION_CONFLICT re-read and retry.

Docs:
- crewplan://docs/scheduling (how hours are allocated and overridden)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "crewplan://docs/scheduling",
		Name:        "docs_scheduling",
		Title:       "crewplan scheduling rules",
		Description: "How daily hours are derived from scopes and reconciled with overrides.",
		Content: `# Scheduling rules

## Hour allocation

Each scope of work carries a date range plus either a manpower figure or a total-hours figure.

- Manpower takes precedence: daily hours = manpower x 10.
- Otherwise: daily hours = total hours / workdays in range.
- Weekends and observed holidays receive zero hours.
- A scope with no valid range or no figure contributes nothing.

## Override precedence

For any given day, sources resolve in this order:

1. A written short-term day, including an explicit zero. Zero means the day was cleared, not unknown.
2. The scope (Gantt) allocation.
3. A long-term weekly figure, spread as hours/5 across the week's weekdays. Only used when the job has no valid scope range anywhere.

Clearing a day and then deleting the override re-surfaces the scope hours for that day.

## Schedule records

The per-job schedule record is derived output. Every write carries the revision read just before it; a mismatch is rejected so concurrent edits never silently overwrite each other.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
