package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lululau/monthgrid/internal/holidays"
)

func TestMonthGeneratesSixWeeks(t *testing.T) {
	now := time.Date(2025, 11, 18, 10, 0, 0, 0, time.Local)
	svc, err := NewService(WithNow(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	view, err := svc.Month(2025, 11)
	if err != nil {
		t.Fatalf("Month returned error: %v", err)
	}
	if view.Month != time.November {
		t.Fatalf("expected November, got %v", view.Month)
	}
	if view.Title != "November 2025" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if len(view.Weeks) != WeeksPerGrid {
		t.Fatalf("expected %d weeks, got %d", WeeksPerGrid, len(view.Weeks))
	}
	start := view.Weeks[0][0].Date
	if start.Weekday() != time.Sunday {
		t.Fatalf("calendar should start on Sunday, got %v", start.Weekday())
	}
	foundToday := false
	inMonth := 0
	for _, week := range view.Weeks {
		if len(week) != DaysPerWeek {
			t.Fatalf("week should have 7 days, got %d", len(week))
		}
		for _, day := range week {
			if day.InMonth {
				inMonth++
			}
			if day.IsToday {
				foundToday = true
				if day.Date.Day() != 18 {
					t.Fatalf("expected IsToday on 18th, got %d", day.Date.Day())
				}
			}
		}
	}
	if !foundToday {
		t.Fatalf("expected to flag current day")
	}
	if inMonth != 30 {
		t.Fatalf("expected 30 in-month days, got %d", inMonth)
	}
}

func TestMonthPagination(t *testing.T) {
	svc, err := NewService(WithWeekStart(1))
	require.NoError(t, err)

	view, err := svc.Month(2023, 12)
	require.NoError(t, err)
	assert.Equal(t, Request{Year: 2024, Month: 1}, view.NextRequest())
	assert.Equal(t, Request{Year: 2023, Month: 11}, view.PreviousRequest())
	assert.Equal(t, time.Monday, view.Weeks[0][0].Date.Weekday())
	assert.Equal(t, [7]time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
	}, view.Weekdays())

	view, err = svc.Month(2023, 1)
	require.NoError(t, err)
	assert.Equal(t, Request{Year: 2022, Month: 12}, view.PreviousRequest())
}

func TestMonthMarksHolidays(t *testing.T) {
	set := holidays.Set{
		"2024": {
			"02-10": {Holiday: true, Name: "Spring Festival"},
			"02-18": {Holiday: false, Name: "Spring Festival"},
		},
	}
	svc, err := NewService(WithHolidays(set))
	require.NoError(t, err)
	require.True(t, svc.HasHolidayData())

	view, err := svc.Month(2024, 2)
	require.NoError(t, err)

	marked := map[int]bool{}
	for _, week := range view.Weeks {
		for _, day := range week {
			if day.Holiday != nil {
				marked[day.Date.Day()] = day.Holiday.IsHoliday
			}
		}
	}
	assert.Equal(t, map[int]bool{10: true, 18: false}, marked)
}

func TestYearLoadsAllMonths(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	months, err := svc.Year(2024)
	if err != nil {
		t.Fatalf("Year returned error: %v", err)
	}
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for i, view := range months {
		assert.Equal(t, time.Month(i+1), view.Month)
	}
}

func TestInvalidMonth(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	if _, err := svc.Month(2024, 13); err == nil {
		t.Fatalf("expected error for invalid month")
	}
	_, err = svc.Year(10000)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestServiceFirstDayOfWeek(t *testing.T) {
	_, err := NewService(WithWeekStart(9))
	require.ErrorIs(t, err, ErrOutOfRange)

	svc, err := NewService(WithWeekStart(6))
	require.NoError(t, err)
	require.Error(t, svc.SetFirstDayOfWeek(7))
	assert.Equal(t, 6, svc.FirstDayOfWeek())

	require.NoError(t, svc.SetFirstDayOfWeek(3))
	view, err := svc.Month(2015, 6)
	require.NoError(t, err)
	assert.Equal(t, "2015-05-27", ymd(view.Weeks[0][0].Date))
}

func TestServiceLogsGrid(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc, err := NewService(WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = svc.Month(2015, 6)
	require.NoError(t, err)

	entries := logs.FilterMessage("grid built").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2015), entries[0].ContextMap()["year"])
}

func TestRequestNavigation(t *testing.T) {
	tests := []struct {
		name string
		got  Request
		want Request
	}{
		{"next wraps december", Request{Year: 2023, Month: 12}.NextMonth(), Request{Year: 2024, Month: 1}},
		{"previous wraps january", Request{Year: 2023, Month: 1}.PreviousMonth(), Request{Year: 2022, Month: 12}},
		{"normalize overflow", Request{Year: 2020, Month: 26}.Normalize(), Request{Year: 2022, Month: 2}},
		{"normalize underflow", Request{Year: 2020, Month: -1}.Normalize(), Request{Year: 2019, Month: 11}},
		{"next year", Request{Year: 2020, Month: 5}.NextYear(), Request{Year: 2021, Month: 5}},
		{"previous year", Request{Year: 2020, Month: 5}.PreviousYear(), Request{Year: 2019, Month: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, Request{Year: 2024, Month: 2}.Validate())
	require.NoError(t, Request{Year: 2024, Mode: ModeYear}.Validate())
	require.ErrorIs(t, Request{Year: 2024, Month: 0}.Validate(), ErrOutOfRange)
	require.ErrorIs(t, Request{Year: 0, Month: 1}.Validate(), ErrOutOfRange)
}
