package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/daybook/internal/model"
)

func intPtr(v int) *int { return &v }

func TestMonthAveragesSameMonth(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	entries := []model.DayData{
		{Day: "2024-03-01", Mood: intPtr(2)},
		{Day: "2024-03-15", Mood: intPtr(4)},
	}

	mood, rating := model.MonthAverages(entries, 2024, time.March)

	assert.Equal("3.0", mood)
	assert.Equal(model.MetricPlaceholder, rating)
}

func TestMonthAveragesExcludesOtherMonths(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	entries := []model.DayData{
		{Day: "2024-03-01", Mood: intPtr(2)},
		{Day: "2024-03-15", Mood: intPtr(4)},
		{Day: "2024-02-28", Mood: intPtr(5)},
		{Day: "2023-03-10", Mood: intPtr(5)},
	}

	mood, _ := model.MonthAverages(entries, 2024, time.March)

	assert.Equal("3.0", mood)
}

func TestMonthAveragesSkipsMissingFields(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	// The entry without a rating must be excluded from the rating
	// average, not counted as zero.
	entries := []model.DayData{
		{Day: "2024-03-01", Mood: intPtr(2), Rating: intPtr(8)},
		{Day: "2024-03-02", Mood: intPtr(4)},
	}

	mood, rating := model.MonthAverages(entries, 2024, time.March)

	assert.Equal("3.0", mood)
	assert.Equal("8.0", rating)
}

func TestMonthAveragesRoundsToOneDecimal(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	entries := []model.DayData{
		{Day: "2024-03-01", Mood: intPtr(2)},
		{Day: "2024-03-02", Mood: intPtr(2)},
		{Day: "2024-03-03", Mood: intPtr(3)},
	}

	mood, _ := model.MonthAverages(entries, 2024, time.March)

	assert.Equal("2.3", mood)
}

func TestParseDayKey(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	parsed, err := model.ParseDayKey("2024-03-01")
	assert.Nil(err)
	assert.Equal(2024, parsed.Year())
	assert.Equal(time.March, parsed.Month())

	_, err = model.ParseDayKey("03/01/2024")
	assert.ErrorIs(err, model.ErrBadDayKey)
}
