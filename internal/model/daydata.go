package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DayKeyLayout is the date format used to key per-day metric entries.
const DayKeyLayout = "2006-01-02"

// MetricPlaceholder is reported when an average has no data points.
const MetricPlaceholder = "—"

var (
	ErrBadDayKey      = errors.New("model: day key must be YYYY-MM-DD")
	ErrMoodOutOfRange = errors.New("model: mood must be between 1 and 5")
	ErrRatingOutOfRange = errors.New("model: rating must be between 1 and 10")
	ErrWeightNotPositive = errors.New("model: weight must be positive")
)

// DayData holds the per-day metric values for a single calendar day.
// Each field is independently optional: a row existing for a day does
// not imply all three were recorded.
type DayData struct {
	// Day is the YYYY-MM-DD key this entry belongs to.
	Day string `json:"day" db:"day"`

	// Mood on a 1-5 scale.
	Mood *int `json:"mood,omitempty" db:"mood"`

	// Weight in the user's display unit, positive.
	Weight *float64 `json:"weight,omitempty" db:"weight"`

	// Rating of the day on a 1-10 scale.
	Rating *int `json:"rating,omitempty" db:"rating"`
}

// DayKey formats a timestamp as a metric day key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey validates and parses a YYYY-MM-DD day key.
func ParseDayKey(day string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDayKey, day)
	}
	return t, nil
}

// MonthAverages computes the month-to-date mood and rating averages
// over the given entries. Entries outside year/month are excluded, as
// are entries lacking the respective field (they are not treated as
// zero). Averages are rounded to one decimal place and formatted;
// MetricPlaceholder is returned when no entry carries the field.
func MonthAverages(entries []DayData, year int, month time.Month) (mood, rating string) {
	var moodSum, ratingSum float64
	var moodN, ratingN int

	for _, e := range entries {
		day, err := ParseDayKey(e.Day)
		if err != nil || day.Year() != year || day.Month() != month {
			continue
		}
		if e.Mood != nil {
			moodSum += float64(*e.Mood)
			moodN++
		}
		if e.Rating != nil {
			ratingSum += float64(*e.Rating)
			ratingN++
		}
	}

	return formatAverage(moodSum, moodN), formatAverage(ratingSum, ratingN)
}

func formatAverage(sum float64, n int) string {
	if n == 0 {
		return MetricPlaceholder
	}
	return fmt.Sprintf("%.1f", math.Round(sum/float64(n)*10)/10)
}
