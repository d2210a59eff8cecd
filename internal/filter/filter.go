package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
)

// DefaultDays is the recency window applied when the days parameter is absent
// or unparseable.
const DefaultDays = 7

// AllSentinel disables a filter dimension when passed as its value.
const AllSentinel = "all"

const hoursPerDay = 24

// Predicates is the declarative filter configuration for one request.
// Dimensions combine with AND; multi-valued dimensions OR across their
// selected categories. Zero values mean "no restriction" except Days, which
// always narrows to a recency window.
type Predicates struct {
	Status    string
	Days      int
	Seniority []string
	German    []string
	Query     string
}

// Parse builds Predicates from request query parameters.
func Parse(values url.Values) Predicates {
	return Predicates{
		Status:    values.Get("status"),
		Days:      parseDays(values.Get("days")),
		Seniority: selectedCategories(values["seniority"]),
		German:    selectedCategories(values["german"]),
		Query:     values.Get("q"),
	}
}

// parseDays parses the recency window, defaulting on absence or bad input.
func parseDays(raw string) int {
	if raw == "" {
		return DefaultDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return DefaultDays
	}
	return days
}

// selectedCategories normalizes a multi-valued category parameter. Selecting
// "all" (or nothing) disables the dimension.
func selectedCategories(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, val := range raw {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "" {
			continue
		}
		if val == AllSentinel {
			return nil
		}
		out = append(out, val)
	}
	return out
}

// Apply filters records by the given predicates, deduplicates exact row
// duplicates, and returns the result sorted most recent first. The output is
// deterministic for identical inputs.
func Apply(records []domain.JobRecord, preds Predicates, now time.Time) []domain.JobRecord {
	cutoff := now.Add(-time.Duration(preds.Days) * hoursPerDay * time.Hour)

	out := make([]domain.JobRecord, 0, len(records))
	for _, record := range records {
		if !matches(record, preds, cutoff) {
			continue
		}
		out = append(out, record)
	}

	out = dedupe(out)
	sortByRecency(out)

	return out
}

// matches evaluates every active dimension against one record (AND semantics).
func matches(record domain.JobRecord, preds Predicates, cutoff time.Time) bool {
	if preds.Status != "" && preds.Status != AllSentinel && record.Status != preds.Status {
		return false
	}

	if record.LastModified.Before(cutoff) {
		return false
	}

	if len(preds.Seniority) > 0 && !anyCategory(record.Seniority, preds.Seniority, matchesSeniority) {
		return false
	}

	if len(preds.German) > 0 && !anyCategory(record.German, preds.German, matchesGerman) {
		return false
	}

	if preds.Query != "" && !matchesQuery(record, preds.Query) {
		return false
	}

	return true
}

// anyCategory is the OR across a dimension's selected categories.
func anyCategory(text string, categories []string, match func(text, category string) bool) bool {
	for _, category := range categories {
		if match(text, category) {
			return true
		}
	}
	return false
}

// matchesQuery is the free-text search: case-insensitive substring OR across
// title, company, and required skills. Absent values never match.
func matchesQuery(record domain.JobRecord, query string) bool {
	needle := strings.ToLower(query)

	for _, field := range []string{record.Title, record.Company, record.Skills} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

// dedupe collapses exact row duplicates, keeping the first occurrence.
func dedupe(records []domain.JobRecord) []domain.JobRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0]

	for _, record := range records {
		key := record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, record)
	}

	return out
}

// sortByRecency orders records most recent first, filename ascending on ties.
func sortByRecency(records []domain.JobRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].LastModified.Equal(records[j].LastModified) {
			return records[i].LastModified.After(records[j].LastModified)
		}
		return records[i].Filename < records[j].Filename
	})
}
