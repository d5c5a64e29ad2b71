// Package summary renders the daily status message: today's task
// counts plus the month-to-date metric averages.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/store"
)

// Build composes the daily summary text for the given moment.
func Build(ctx context.Context, s store.Store, now time.Time) (string, error) {
	active := model.StateActive
	open, err := s.GetTodos(ctx, store.TodoFilter{State: &active})
	if err != nil {
		return "", err
	}

	completed := model.StateCompleted
	done, err := s.GetTodos(ctx, store.TodoFilter{State: &completed})
	if err != nil {
		return "", err
	}
	doneToday := 0
	today := model.DayKey(now)
	for _, t := range done {
		if t.CompletedAt != nil && model.DayKey(t.CompletedAt.Local()) == today {
			doneToday++
		}
	}

	entries, err := s.GetMonthData(ctx, now.Year(), now.Month())
	if err != nil {
		return "", err
	}
	mood, rating := model.MonthAverages(entries, now.Year(), now.Month())

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Daily summary — %s</b>\n\n", today)
	fmt.Fprintf(&b, "Completed today: %d\n", doneToday)
	fmt.Fprintf(&b, "Still open: %d\n\n", len(open))
	fmt.Fprintf(&b, "Month so far: mood %s, rating %s", mood, rating)
	return b.String(), nil
}
