package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/daybook/internal/model"
)

// SetMood upserts the mood value for a day, creating the row lazily.
func (s *SQLiteStore) SetMood(ctx context.Context, day string, mood int) error {
	if mood < 1 || mood > 5 {
		return model.ErrMoodOutOfRange
	}
	return s.setMetric(ctx, day, "mood", mood)
}

// SetWeight upserts the weight value for a day, creating the row lazily.
func (s *SQLiteStore) SetWeight(ctx context.Context, day string, weight float64) error {
	if weight <= 0 {
		return model.ErrWeightNotPositive
	}
	return s.setMetric(ctx, day, "weight", weight)
}

// SetRating upserts the day rating, creating the row lazily.
func (s *SQLiteStore) SetRating(ctx context.Context, day string, rating int) error {
	if rating < 1 || rating > 10 {
		return model.ErrRatingOutOfRange
	}
	return s.setMetric(ctx, day, "rating", rating)
}

// ResetMood deletes the mood value for a day; the other fields keep
// their values. A missing row is a no-op.
func (s *SQLiteStore) ResetMood(ctx context.Context, day string) error {
	return s.resetMetric(ctx, day, "mood")
}

// ResetWeight deletes the weight value for a day.
func (s *SQLiteStore) ResetWeight(ctx context.Context, day string) error {
	return s.resetMetric(ctx, day, "weight")
}

// ResetRating deletes the day rating for a day.
func (s *SQLiteStore) ResetRating(ctx context.Context, day string) error {
	return s.resetMetric(ctx, day, "rating")
}

// GetDayData retrieves the metric entry for a day.
func (s *SQLiteStore) GetDayData(ctx context.Context, day string) (*model.DayData, error) {
	if _, err := model.ParseDayKey(day); err != nil {
		return nil, err
	}
	var out model.DayData
	err := s.db.GetContext(ctx, &out,
		"SELECT day, mood, weight, rating FROM day_metrics WHERE day = ?", day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting day metrics %s: %w", day, err)
	}
	return &out, nil
}

// GetMonthData lists every metric entry whose day key falls within the
// given calendar month, in day order.
func (s *SQLiteStore) GetMonthData(ctx context.Context, year int, month time.Month) ([]model.DayData, error) {
	prefix := fmt.Sprintf("%04d-%02d-%%", year, int(month))
	out := []model.DayData{}
	err := s.db.SelectContext(ctx, &out,
		"SELECT day, mood, weight, rating FROM day_metrics WHERE day LIKE ? ORDER BY day", prefix)
	if err != nil {
		return nil, fmt.Errorf("listing month metrics %04d-%02d: %w", year, int(month), err)
	}
	return out, nil
}

// setMetric upserts a single metric column for a day. The column name
// comes from a fixed caller-side set, never from user input.
func (s *SQLiteStore) setMetric(ctx context.Context, day, column string, value any) error {
	if _, err := model.ParseDayKey(day); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO day_metrics (day, %s) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET %s = excluded.%s`, column, column, column)
	if _, err := s.db.ExecContext(ctx, query, day, value); err != nil {
		return fmt.Errorf("setting %s for %s: %w", column, day, err)
	}
	return nil
}

func (s *SQLiteStore) resetMetric(ctx context.Context, day, column string) error {
	if _, err := model.ParseDayKey(day); err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE day_metrics SET %s = NULL WHERE day = ?", column)
	if _, err := s.db.ExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("resetting %s for %s: %w", column, day, err)
	}
	return nil
}
