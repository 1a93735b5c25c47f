package project

import (
	"sort"
	"strings"
	"time"
)

// ExclusionConfig is the fixed allow/deny filter applied before
// deduplication. The lists come from configuration rather than inline
// literals so internal/test records can be screened without code
// changes.
type ExclusionConfig struct {
	CustomerSubstrings []string `yaml:"customer_substrings"`
	ProjectNames       []string `yaml:"project_names"`
	ProjectNumbers     []string `yaml:"project_numbers"`
	Estimators         []string `yaml:"estimators"`
}

// excluded reports whether a line item is screened out entirely.
// Archived records and records with no estimator never survive.
func (cfg ExclusionConfig) excluded(li LineItem) bool {
	if li.Archived {
		return true
	}
	customer := strings.ToLower(li.Customer)
	for _, sub := range cfg.CustomerSubstrings {
		if sub != "" && strings.Contains(customer, strings.ToLower(sub)) {
			return true
		}
	}
	name := strings.ToLower(strings.TrimSpace(li.ProjectName))
	for _, sentinel := range cfg.ProjectNames {
		s := strings.ToLower(sentinel)
		if s != "" && (name == s || strings.Contains(name, s)) {
			return true
		}
	}
	number := strings.TrimSpace(li.ProjectNumber)
	for _, n := range cfg.ProjectNumbers {
		if n != "" && number == n {
			return true
		}
	}
	estimator := strings.TrimSpace(li.Estimator)
	if estimator == "" {
		return true
	}
	for _, e := range cfg.Estimators {
		if strings.EqualFold(estimator, e) {
			return true
		}
	}
	return false
}

// Deduplicate collapses line items that share a project identifier
// (number-or-name) but disagree on customer down to one canonical
// customer, then sums sales, cost and hours per exact
// (customer, number, name) key.
//
// Customer resolution, in order:
//  1. the first customer (ascending by name) holding any record with a
//     priority status — first match wins, not best status;
//  2. otherwise the customer whose most recent dateCreated is latest,
//     ties broken alphabetically ascending.
//
// Customer iteration is pinned to sorted name order so the outcome is
// stable regardless of input order.
func Deduplicate(items []LineItem, cfg ExclusionConfig) []Project {
	byIdentifier := make(map[string][]LineItem)
	for _, li := range items {
		if cfg.excluded(li) {
			continue
		}
		id := li.Identifier()
		if id == "" {
			continue
		}
		byIdentifier[id] = append(byIdentifier[id], li)
	}

	var out []Project
	for _, group := range byIdentifier {
		customer := resolveCustomer(group)
		var kept []LineItem
		for _, li := range group {
			if li.Customer == customer {
				kept = append(kept, li)
			}
		}
		out = append(out, aggregateByKey(kept)...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].JobKey < out[j].JobKey })
	return out
}

func resolveCustomer(group []LineItem) string {
	byCustomer := make(map[string][]LineItem)
	for _, li := range group {
		byCustomer[li.Customer] = append(byCustomer[li.Customer], li)
	}
	names := make([]string, 0, len(byCustomer))
	for name := range byCustomer {
		names = append(names, name)
	}
	if len(names) == 1 {
		return names[0]
	}
	sort.Strings(names)

	for _, name := range names {
		for _, li := range byCustomer[name] {
			if li.Status.IsPriority() {
				return name
			}
		}
	}

	// No priority status anywhere: latest creation date wins, with the
	// ascending scan breaking ties toward the alphabetically first name.
	best := names[0]
	bestTime := newestCreated(byCustomer[best])
	for _, name := range names[1:] {
		if t := newestCreated(byCustomer[name]); t.After(bestTime) {
			best, bestTime = name, t
		}
	}
	return best
}

func newestCreated(items []LineItem) time.Time {
	var newest time.Time
	for _, li := range items {
		if t, ok := li.CreatedTime(); ok && t.After(newest) {
			newest = t
		}
	}
	return newest
}

// aggregateByKey sums line items per exact (customer, number, name)
// key. Display fields come from the representative record: the one
// whose project name sorts first case-insensitively.
func aggregateByKey(items []LineItem) []Project {
	byKey := make(map[string][]LineItem)
	for _, li := range items {
		byKey[li.JobKey()] = append(byKey[li.JobKey()], li)
	}
	out := make([]Project, 0, len(byKey))
	for key, group := range byKey {
		sort.SliceStable(group, func(i, j int) bool {
			a := strings.ToLower(group[i].ProjectName)
			b := strings.ToLower(group[j].ProjectName)
			if a != b {
				return a < b
			}
			return group[i].ID < group[j].ID
		})
		rep := group[0]
		p := Project{
			JobKey:        key,
			Customer:      rep.Customer,
			ProjectNumber: rep.ProjectNumber,
			ProjectName:   rep.ProjectName,
			ScopeOfWork:   rep.ScopeOfWork,
			Status:        rep.Status,
			Estimator:     rep.Estimator,
			LineItems:     len(group),
		}
		for _, li := range group {
			p.Sales += li.Sales
			p.Cost += li.Cost
			p.Hours += li.Hours
		}
		out = append(out, p)
	}
	return out
}
