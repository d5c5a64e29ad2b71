package model

import (
	"sort"
	"strings"
	"time"
)

// SortField selects the comparison key for SortTodos.
type SortField string

const (
	// SortByDate orders by the most recent of a todo's timestamps
	// ("last touched"), not by creation order.
	SortByDate SortField = "date"

	// SortByTitle orders by title, case-insensitively.
	SortByTitle SortField = "title"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortTodos returns a new, stably ordered copy of todos. The input
// slice is never mutated.
func SortTodos(todos []Todo, field SortField, order SortOrder) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)

	var less func(a, b Todo) bool
	switch field {
	case SortByTitle:
		less = func(a, b Todo) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		less = func(a, b Todo) bool {
			return LastTouched(a).Before(LastTouched(b))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// LastTouched returns the most recent of a todo's lifecycle timestamps.
func LastTouched(t Todo) time.Time {
	latest := t.CreatedAt
	for _, ts := range []*time.Time{&t.UpdatedAt, t.CompletedAt, t.ArchivedAt} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}
