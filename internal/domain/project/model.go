package project

import (
	"regexp"
	"strings"
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
)

// Status is the estimating/construction pipeline state of a project.
type Status string

const (
	StatusBidSubmitted Status = "Bid Submitted"
	StatusEstimating   Status = "Estimating"
	StatusAccepted     Status = "Accepted"
	StatusInProgress   Status = "In Progress"
	StatusComplete     Status = "Complete"
	StatusLost         Status = "Lost"
	StatusDelayed      Status = "Delayed"
)

// IsQualifying reports whether the status counts toward the
// unscheduled-hours budget.
func (s Status) IsQualifying() bool {
	return s == StatusAccepted || s == StatusInProgress
}

// IsPriority reports whether the status wins the deduplication
// customer tie-break. Broader than qualifying: completed work still
// pins the customer.
func (s Status) IsPriority() bool {
	return s == StatusAccepted || s == StatusInProgress || s == StatusComplete
}

// LineItem is a single cost-category row for a project. A
// dashboard-visible project is the aggregation of all line items
// sharing a job key; sales, cost and hours are additive within that
// key and never divided.
type LineItem struct {
	ID            string  `json:"id"`
	Customer      string  `json:"customer"`
	ProjectNumber string  `json:"project_number"`
	ProjectName   string  `json:"project_name"`
	ScopeOfWork   string  `json:"scope_of_work,omitempty"`
	Status        Status  `json:"status"`
	Sales         float64 `json:"sales"`
	Cost          float64 `json:"cost"`
	Hours         float64 `json:"hours"`
	Estimator     string  `json:"estimator,omitempty"`
	DateCreated   string  `json:"date_created,omitempty"`
	DateUpdated   string  `json:"date_updated,omitempty"`
	Archived      bool    `json:"archived"`
}

// JobKey returns the canonical identity of the line item's project.
func (li LineItem) JobKey() string {
	return JobKey(li.Customer, li.ProjectNumber, li.ProjectName)
}

// Identifier is the deduplication grouping key: the project number
// when present, otherwise the project name.
func (li LineItem) Identifier() string {
	if n := strings.TrimSpace(li.ProjectNumber); n != "" {
		return n
	}
	return strings.TrimSpace(li.ProjectName)
}

// CreatedTime parses DateCreated, tolerating the legacy date shapes.
// ok=false means the record carries no usable creation date.
func (li LineItem) CreatedTime() (time.Time, bool) {
	if li.DateCreated == "" {
		return time.Time{}, false
	}
	return calendar.ParseFlexible(li.DateCreated)
}

// Project is the canonical deduplicated entity: one per
// (customer, number, name) triple, with line-item figures summed.
type Project struct {
	JobKey        string  `json:"job_key"`
	Customer      string  `json:"customer"`
	ProjectNumber string  `json:"project_number"`
	ProjectName   string  `json:"project_name"`
	ScopeOfWork   string  `json:"scope_of_work,omitempty"`
	Status        Status  `json:"status"`
	Sales         float64 `json:"sales"`
	Cost          float64 `json:"cost"`
	Hours         float64 `json:"hours"`
	Estimator     string  `json:"estimator,omitempty"`
	LineItems     int     `json:"line_items"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// JobKey builds the canonical "customer~number~name" identity string.
// Each part is trimmed and internal whitespace runs collapse to a
// single space, so records that differ only in spacing correlate.
func JobKey(customer, number, name string) string {
	return normalizePart(customer) + "~" + normalizePart(number) + "~" + normalizePart(name)
}

func normalizePart(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

var docKeyStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeDocKey strips characters outside [a-zA-Z0-9_-] from a
// jobKey-derived string so it is safe as a storage document id.
func SanitizeDocKey(key string) string {
	return docKeyStrip.ReplaceAllString(key, "")
}
