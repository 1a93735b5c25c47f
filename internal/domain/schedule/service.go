package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/scope"
	"github.com/slateworks/crewplan/internal/repository"
)

// Service owns all schedule writes: it resolves the three scheduling
// sources, recomputes the derived aggregate/cache/tracking records,
// and fans a day-level edit out so the Gantt range stays consistent.
// All recomputation runs synchronously inside the triggering request;
// there is no background queue.
type Service struct {
	projects   project.Repository
	scopes     scope.Repository
	shortTerm  ShortTermRepository
	longTerm   LongTermRepository
	aggregates AggregateRepository
	sync       SyncRepository
	active     ActiveRepository
	tracking   TrackingRepository
	logger     *slog.Logger
}

// NewService creates a new schedule service.
func NewService(
	projects project.Repository,
	scopes scope.Repository,
	shortTerm ShortTermRepository,
	longTerm LongTermRepository,
	aggregates AggregateRepository,
	sync SyncRepository,
	active ActiveRepository,
	tracking TrackingRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects:   projects,
		scopes:     scopes,
		shortTerm:  shortTerm,
		longTerm:   longTerm,
		aggregates: aggregates,
		sync:       sync,
		active:     active,
		tracking:   tracking,
		logger:     logger,
	}
}

// ListAggregates returns the reconciled schedule records for the
// scheduling view.
func (s *Service) ListAggregates(ctx context.Context, limit, offset int) ([]Aggregate, error) {
	aggs, err := s.aggregates.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return aggs, nil
}

// GetAggregate fetches one schedule record.
func (s *Service) GetAggregate(ctx context.Context, jobKey string) (*Aggregate, error) {
	agg, err := s.aggregates.Get(ctx, jobKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("getting schedule: %w", err)
	}
	return agg, nil
}

// ResolveRange reconciles all sources into per-day assignments within
// [start, end]. This is the crew-board read path.
func (s *Service) ResolveRange(ctx context.Context, start, end time.Time) ([]Assignment, error) {
	allScopes, err := s.scopes.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing scopes: %w", err)
	}
	byJob := make(map[string][]scope.Scope)
	for _, sc := range allScopes {
		byJob[sc.JobKey] = append(byJob[sc.JobKey], sc)
	}

	months := MonthsTouched(start, end)
	st, err := s.shortTerm.ListByMonths(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("listing short-term overrides: %w", err)
	}
	lt, err := s.longTerm.ListByMonths(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("listing long-term overrides: %w", err)
	}

	resolved := Resolve(Inputs{ScopesByJob: byJob, ShortTerm: st, LongTerm: lt})

	// ISO day keys sort lexically, so the window filter is a string compare.
	lo, hi := calendar.DayKey(start), calendar.DayKey(end)
	out := resolved[:0]
	for _, a := range resolved {
		if a.Date >= lo && a.Date <= hi {
			out = append(out, a)
		}
	}
	return out, nil
}

// ResolveAll reconciles every stored source with no date window; the
// WIP aggregation consumes this.
func (s *Service) ResolveAll(ctx context.Context) ([]Assignment, error) {
	allScopes, err := s.scopes.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing scopes: %w", err)
	}
	byJob := make(map[string][]scope.Scope)
	for _, sc := range allScopes {
		byJob[sc.JobKey] = append(byJob[sc.JobKey], sc)
	}
	st, err := s.shortTerm.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing short-term overrides: %w", err)
	}
	lt, err := s.longTerm.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing long-term overrides: %w", err)
	}
	return Resolve(Inputs{ScopesByJob: byJob, ShortTerm: st, LongTerm: lt}), nil
}

// ActiveEntries reads the derived per-date cache for [start, end]
// without re-resolving. The cache is only as fresh as the last
// recompute of each job; ResolveRange is the always-fresh path.
func (s *Service) ActiveEntries(ctx context.Context, start, end time.Time) ([]ActiveEntry, error) {
	entries, err := s.active.ListRange(ctx, calendar.DayKey(start), calendar.DayKey(end))
	if err != nil {
		return nil, fmt.Errorf("listing active schedule: %w", err)
	}
	return entries, nil
}

// ScopeTracking reads the scheduled-versus-budget rows, either for one
// job key or, with an empty key, across all jobs.
func (s *Service) ScopeTracking(ctx context.Context, jobKey string) ([]Tracking, error) {
	var rows []Tracking
	var err error
	if strings.TrimSpace(jobKey) == "" {
		rows, err = s.tracking.ListAll(ctx, 0, 0)
	} else {
		rows, err = s.tracking.ListByJobKey(ctx, jobKey)
	}
	if err != nil {
		return nil, fmt.Errorf("listing scope tracking: %w", err)
	}
	return rows, nil
}

// DayEditRequest is one board edit: a card dragged onto, or an hour
// field typed into, a (month, week, day) cell. Hours 0 clears the day.
type DayEditRequest struct {
	JobKey     string
	Month      string
	WeekNumber int
	DayNumber  int
	Hours      float64
	Foreman    string
	Employees  []string
}

// ApplyDayEdit writes the short-term override for the edited day, then
// fans out: the owning project's Gantt range is widened when the day
// falls outside it, and the derived records are recomputed. The
// override write commits even when recomputation fails; the failure is
// logged and reported without rolling back the edit.
func (s *Service) ApplyDayEdit(ctx context.Context, req DayEditRequest) (*Aggregate, error) {
	if strings.TrimSpace(req.JobKey) == "" || req.Hours < 0 {
		return nil, ErrInvalidInput
	}
	date, ok := overrideDate(req.Month, req.WeekNumber, req.DayNumber)
	if !ok {
		return nil, ErrInvalidInput
	}

	doc, err := s.shortTerm.Get(ctx, req.JobKey, req.Month)
	if errors.Is(err, repository.ErrNotFound) {
		doc = &ShortTermDoc{JobKey: req.JobKey, Month: req.Month}
	} else if err != nil {
		return nil, fmt.Errorf("reading short-term doc: %w", err)
	}
	writeDay(doc, req)

	if err := s.shortTerm.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("writing short-term doc: %w", err)
	}

	if err := s.widenGanttRange(ctx, req.JobKey, date); err != nil {
		// Independent write: log and carry on, the override is committed.
		s.logger.Warn("gantt range fan-out failed", "job_key", req.JobKey, "error", err)
	}

	agg, err := s.Recompute(ctx, req.JobKey)
	if err != nil {
		s.logger.Error("recompute after day edit failed", "job_key", req.JobKey, "error", err)
		return nil, fmt.Errorf("recomputing schedule: %w", err)
	}
	return agg, nil
}

// writeDay merges the edited day into the month document, overwriting
// any previous value for the same (week, day) cell.
func writeDay(doc *ShortTermDoc, req DayEditRequest) {
	day := ShortTermDay{
		DayNumber: req.DayNumber,
		Hours:     req.Hours,
		Foreman:   req.Foreman,
		Employees: req.Employees,
	}
	for wi := range doc.Weeks {
		if doc.Weeks[wi].WeekNumber != req.WeekNumber {
			continue
		}
		for di := range doc.Weeks[wi].Days {
			if doc.Weeks[wi].Days[di].DayNumber == req.DayNumber {
				doc.Weeks[wi].Days[di] = day
				return
			}
		}
		doc.Weeks[wi].Days = append(doc.Weeks[wi].Days, day)
		sort.Slice(doc.Weeks[wi].Days, func(a, b int) bool {
			return doc.Weeks[wi].Days[a].DayNumber < doc.Weeks[wi].Days[b].DayNumber
		})
		return
	}
	doc.Weeks = append(doc.Weeks, ShortTermWeek{WeekNumber: req.WeekNumber, Days: []ShortTermDay{day}})
	sort.Slice(doc.Weeks, func(a, b int) bool { return doc.Weeks[a].WeekNumber < doc.Weeks[b].WeekNumber })
}

// widenGanttRange extends the project's scope dates when a day-level
// move lands outside every scope's range, keeping the Gantt view
// consistent with ad-hoc moves. Projects without any valid scope range
// are left alone.
func (s *Service) widenGanttRange(ctx context.Context, jobKey string, date time.Time) error {
	jobScopes, err := s.scopes.ListByJobKey(ctx, jobKey)
	if err != nil {
		return fmt.Errorf("listing scopes: %w", err)
	}

	var earliest, latest *scope.Scope
	var minStart, maxEnd time.Time
	for i := range jobScopes {
		start, end, ok := jobScopes[i].DateRange()
		if !ok {
			continue
		}
		if earliest == nil || start.Before(minStart) {
			earliest, minStart = &jobScopes[i], start
		}
		if latest == nil || end.After(maxEnd) {
			latest, maxEnd = &jobScopes[i], end
		}
	}
	if earliest == nil {
		return nil
	}

	switch {
	case date.Before(minStart):
		earliest.StartDate = calendar.DayKey(date)
		return s.scopes.Upsert(ctx, earliest)
	case date.After(maxEnd):
		latest.EndDate = calendar.DayKey(date)
		return s.scopes.Upsert(ctx, latest)
	default:
		return nil
	}
}

// Recompute re-derives one job key's aggregate, active-schedule cache
// and scope tracking from the latest stored state, and writes all
// three in one atomic batch. The read happens immediately before the
// write; nothing is computed from a stale copy.
func (s *Service) Recompute(ctx context.Context, jobKey string) (*Aggregate, error) {
	items, err := s.projects.ListByJobKey(ctx, jobKey)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	jobScopes, err := s.scopes.ListByJobKey(ctx, jobKey)
	if err != nil {
		return nil, fmt.Errorf("listing scopes: %w", err)
	}
	st, err := s.shortTerm.ListByJobKey(ctx, jobKey)
	if err != nil {
		return nil, fmt.Errorf("listing short-term overrides: %w", err)
	}
	lt, err := s.longTerm.ListByJobKey(ctx, jobKey)
	if err != nil {
		return nil, fmt.Errorf("listing long-term overrides: %w", err)
	}

	assignments := Resolve(Inputs{
		ScopesByJob: map[string][]scope.Scope{jobKey: jobScopes},
		ShortTerm:   st,
		LongTerm:    lt,
	})

	allocations := make(map[string]float64)
	var resolvedTotal float64
	for _, a := range assignments {
		if t, ok := calendar.ParseISODate(a.Date); ok {
			allocations[calendar.MonthKey(t)] += a.Hours
			resolvedTotal += a.Hours
		}
	}

	var budget float64
	for _, li := range items {
		budget += li.Hours
	}
	totalHours := budget
	if totalHours == 0 {
		totalHours = resolvedTotal
	}

	agg := &Aggregate{
		JobKey:      jobKey,
		DocKey:      project.SanitizeDocKey(jobKey),
		TotalHours:  totalHours,
		Allocations: FromHours(allocations),
		UpdatedAt:   time.Now().UTC(),
	}
	if len(items) > 0 {
		rep := items[0]
		for _, li := range items {
			if li.Status.IsPriority() {
				rep = li
				break
			}
		}
		agg.Customer = rep.Customer
		agg.ProjectNumber = rep.ProjectNumber
		agg.ProjectName = rep.ProjectName
		agg.Status = string(rep.Status)
	}

	var expected int64
	current, err := s.aggregates.Get(ctx, jobKey)
	switch {
	case err == nil:
		expected = current.Revision
		if agg.Customer == "" {
			agg.Customer = current.Customer
			agg.ProjectNumber = current.ProjectNumber
			agg.ProjectName = current.ProjectName
			agg.Status = current.Status
		}
	case errors.Is(err, repository.ErrNotFound):
		expected = 0
	default:
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	agg.Revision = expected + 1

	active, tracking := deriveCaches(jobKey, jobScopes, assignments)

	err = s.sync.ApplySync(ctx, SyncBatch{
		Aggregate:        *agg,
		ExpectedRevision: expected,
		ActiveEntries:    active,
		Tracking:         tracking,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRevisionConflict
		}
		return nil, fmt.Errorf("writing sync batch: %w", err)
	}
	return agg, nil
}

// RescheduleRequest is the manual write accepted at the boundary for
// legacy projects whose months are still placed by hand.
type RescheduleRequest struct {
	JobKey        string
	Customer      string
	ProjectNumber string
	ProjectName   string
	Status        string
	TotalHours    float64
	Allocations   Allocations
}

// Reschedule persists a manual schedule record. The write carries the
// revision read just before it, so a concurrent edit surfaces as
// ErrRevisionConflict rather than silently winning or losing.
func (s *Service) Reschedule(ctx context.Context, req RescheduleRequest) (*Aggregate, error) {
	jobKey := strings.TrimSpace(req.JobKey)
	if jobKey == "" {
		jobKey = project.JobKey(req.Customer, req.ProjectNumber, req.ProjectName)
	}
	if jobKey == "~~" || req.TotalHours < 0 {
		return nil, ErrInvalidInput
	}

	var expected int64
	if current, err := s.aggregates.Get(ctx, jobKey); err == nil {
		expected = current.Revision
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	agg := &Aggregate{
		JobKey:        jobKey,
		DocKey:        project.SanitizeDocKey(jobKey),
		Customer:      req.Customer,
		ProjectNumber: req.ProjectNumber,
		ProjectName:   req.ProjectName,
		Status:        req.Status,
		TotalHours:    req.TotalHours,
		Allocations:   req.Allocations,
		Revision:      expected + 1,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.aggregates.Upsert(ctx, agg, expected); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRevisionConflict
		}
		return nil, fmt.Errorf("writing schedule: %w", err)
	}
	return agg, nil
}

// deriveCaches attributes the resolved per-day hours back to scopes.
// On days covered by the Gantt allocation each scope receives its
// share of the resolved hours; days placed purely by overrides carry
// no scope and cache under an empty scope-of-work. Tracking totals use
// the scope's own allocation as the budget, with unscheduled clamped
// at zero.
func deriveCaches(jobKey string, scopes []scope.Scope, assignments []Assignment) ([]ActiveEntry, []Tracking) {
	type scopeAlloc struct {
		title string
		daily scope.DailyHours
	}
	// Scopes sharing a title collapse into one tracking row.
	var allocs []scopeAlloc
	byTitle := make(map[string]int)
	ganttTotal := make(scope.DailyHours)
	for _, sc := range scopes {
		daily := scope.AllocateDaily(sc)
		if len(daily) == 0 {
			continue
		}
		if i, ok := byTitle[sc.Title]; ok {
			allocs[i].daily.Merge(daily)
		} else {
			byTitle[sc.Title] = len(allocs)
			allocs = append(allocs, scopeAlloc{title: sc.Title, daily: daily})
		}
		ganttTotal.Merge(daily)
	}

	scheduled := make(map[string]float64)
	var active []ActiveEntry
	for _, a := range assignments {
		if a.Hours <= 0 {
			continue
		}
		dayTotal := ganttTotal[a.Date]
		if dayTotal <= 0 {
			active = append(active, ActiveEntry{
				JobKey: jobKey, ScopeOfWork: "", Date: a.Date, Hours: a.Hours, Source: a.Source,
			})
			continue
		}
		for _, sa := range allocs {
			if h := sa.daily[a.Date]; h > 0 {
				share := a.Hours * h / dayTotal
				active = append(active, ActiveEntry{
					JobKey: jobKey, ScopeOfWork: sa.title, Date: a.Date, Hours: share, Source: a.Source,
				})
				scheduled[sa.title] += share
			}
		}
	}

	var tracking []Tracking
	for _, sa := range allocs {
		total := sa.daily.Total()
		unscheduled := total - scheduled[sa.title]
		if unscheduled < 0 {
			unscheduled = 0
		}
		tracking = append(tracking, Tracking{
			JobKey:           jobKey,
			ScopeOfWork:      sa.title,
			TotalHours:       total,
			ScheduledHours:   scheduled[sa.title],
			UnscheduledHours: unscheduled,
		})
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Date != active[j].Date {
			return active[i].Date < active[j].Date
		}
		return active[i].ScopeOfWork < active[j].ScopeOfWork
	})
	sort.Slice(tracking, func(i, j int) bool { return tracking[i].ScopeOfWork < tracking[j].ScopeOfWork })
	return active, tracking
}
