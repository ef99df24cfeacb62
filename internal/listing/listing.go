// Package listing implements the shared list/filter/paginate contract used
// by every collection endpoint: case-insensitive substring search across a
// fixed set of fields, an exact-match status filter with an "all" sentinel,
// and a page cursor that is re-clamped whenever the filtered set changes.
package listing

import "strings"

// StatusAll is the sentinel meaning "no status filtering".
const StatusAll = "all"

// DefaultPageSize applies when a query carries no page size.
const DefaultPageSize = 10

// Query captures the caller-controlled list state.
type Query struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// Config describes how to search and filter a given entity type.
type Config[T any] struct {
	// SearchFields extracts the searchable field values of an item.
	SearchFields func(T) []string
	// StatusOf extracts the field matched against Query.Status. Nil means
	// the entity has no status filter.
	StatusOf func(T) string
}

// Result holds the derived visible subset.
type Result[T any] struct {
	Rows       []T
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

// Derive computes the visible rows for a collection. It is a pure function:
// identical inputs always yield identical output and the input slice is
// never mutated.
func Derive[T any](items []T, q Query, cfg Config[T]) Result[T] {
	filtered := Filter(items, q, cfg)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(filtered) + size - 1) / size

	page := ClampPage(q.Page, totalPages)

	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result[T]{
		Rows:       filtered[start:end],
		Page:       page,
		PageSize:   size,
		TotalCount: len(filtered),
		TotalPages: totalPages,
	}
}

// Filter applies the search and status predicates without paginating.
func Filter[T any](items []T, q Query, cfg Config[T]) []T {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	status := q.Status

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesSearch(item, term, cfg.SearchFields) {
			continue
		}
		if !matchesStatus(item, status, cfg.StatusOf) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ClampPage forces page into [1, max(1, totalPages)] so a stale cursor never
// yields an empty view while rows exist.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func matchesSearch[T any](item T, term string, fields func(T) []string) bool {
	if term == "" || fields == nil {
		return true
	}
	for _, field := range fields(item) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesStatus[T any](item T, status string, statusOf func(T) string) bool {
	if status == "" || status == StatusAll || statusOf == nil {
		return true
	}
	return statusOf(item) == status
}
