package calendar

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ymd(t time.Time) string {
	return t.Format("2006-01-02")
}

// daysBetween counts calendar days, ignoring DST-length days.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func mustGrid(t *testing.T, month, year, firstDayOfWeek int) *Grid {
	t.Helper()
	g, err := NewGrid(WithMonth(month), WithYear(year), WithFirstDayOfWeek(firstDayOfWeek))
	require.NoError(t, err)
	return g
}

func TestGridJune2015(t *testing.T) {
	g := mustGrid(t, 6, 2015, 0)

	assert.Equal(t, "2015-06-01", ymd(g.FirstDayOfMonth()))
	assert.Equal(t, time.Monday, g.FirstDayOfMonth().Weekday())
	assert.Equal(t, "2015-05-31", ymd(g.FirstDay()))
	assert.Equal(t, "2015-07-11", ymd(g.LastDay()))
	assert.Equal(t, "2015-06-30", ymd(g.LastDayOfMonth()))
}

func TestGridBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		month, year    int
		firstDayOfWeek int

		firstDay, lastDay       string
		lastOfMonth             string
		firstOfPrev, lastOfPrev string
		firstOfNext, lastOfNext string
	}{
		{
			name: "leap february", month: 2, year: 2024, firstDayOfWeek: 0,
			firstDay: "2024-01-28", lastDay: "2024-03-09",
			lastOfMonth: "2024-02-29",
			firstOfPrev: "2024-01-01", lastOfPrev: "2024-01-31",
			firstOfNext: "2024-03-01", lastOfNext: "2024-03-31",
		},
		{
			name: "december rolls into next year", month: 12, year: 2023, firstDayOfWeek: 1,
			firstDay: "2023-11-27", lastDay: "2024-01-07",
			lastOfMonth: "2023-12-31",
			firstOfPrev: "2023-11-01", lastOfPrev: "2023-11-30",
			firstOfNext: "2024-01-01", lastOfNext: "2024-01-31",
		},
		{
			name: "january rolls back a year", month: 1, year: 2023, firstDayOfWeek: 0,
			firstDay: "2023-01-01", lastDay: "2023-02-11",
			lastOfMonth: "2023-01-31",
			firstOfPrev: "2022-12-01", lastOfPrev: "2022-12-31",
			firstOfNext: "2023-02-01", lastOfNext: "2023-02-28",
		},
		{
			name: "first of month after week start", month: 8, year: 2015, firstDayOfWeek: 1,
			firstDay: "2015-07-27", lastDay: "2015-09-06",
			lastOfMonth: "2015-08-31",
			firstOfPrev: "2015-07-01", lastOfPrev: "2015-07-31",
			firstOfNext: "2015-09-01", lastOfNext: "2015-09-30",
		},
		{
			name: "week start after first of month backs up a week", month: 6, year: 2015, firstDayOfWeek: 3,
			firstDay: "2015-05-27", lastDay: "2015-07-07",
			lastOfMonth: "2015-06-30",
			firstOfPrev: "2015-05-01", lastOfPrev: "2015-05-31",
			firstOfNext: "2015-07-01", lastOfNext: "2015-07-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.month, tt.year, tt.firstDayOfWeek)
			assert.Equal(t, tt.firstDay, ymd(g.FirstDay()))
			assert.Equal(t, tt.lastDay, ymd(g.LastDay()))
			assert.Equal(t, tt.lastOfMonth, ymd(g.LastDayOfMonth()))
			assert.Equal(t, tt.firstOfPrev, ymd(g.FirstDayOfPreviousMonth()))
			assert.Equal(t, tt.lastOfPrev, ymd(g.LastDayOfPreviousMonth()))
			assert.Equal(t, tt.firstOfNext, ymd(g.FirstDayOfNextMonth()))
			assert.Equal(t, tt.lastOfNext, ymd(g.LastDayOfNextMonth()))
		})
	}
}

func TestGridInvariants(t *testing.T) {
	for year := 1998; year <= 2032; year++ {
		for month := 1; month <= 12; month++ {
			for fdow := 0; fdow < DaysPerWeek; fdow++ {
				g := mustGrid(t, month, year, fdow)

				if got := daysBetween(g.FirstDay(), g.LastDay()); got != DaysPerGrid-1 {
					t.Fatalf("%d-%02d/%d: lastDay-firstDay=%d days", year, month, fdow, got)
				}
				if g.FirstDay().After(g.FirstDayOfMonth()) || g.FirstDayOfMonth().After(g.LastDay()) {
					t.Fatalf("%d-%02d/%d: month start %s outside [%s, %s]", year, month, fdow,
						ymd(g.FirstDayOfMonth()), ymd(g.FirstDay()), ymd(g.LastDay()))
				}
				if daysBetween(g.FirstDay(), g.FirstDayOfMonth()) >= DaysPerWeek {
					t.Fatalf("%d-%02d/%d: firstDay %s is not the latest match", year, month, fdow, ymd(g.FirstDay()))
				}
				if int(g.FirstDay().Weekday()) != fdow {
					t.Fatalf("%d-%02d/%d: firstDay is a %s", year, month, fdow, g.FirstDay().Weekday())
				}
				if !g.LastDayOfMonth().Before(g.LastDay()) {
					t.Fatalf("%d-%02d/%d: grid does not cover the month", year, month, fdow)
				}
				if next := g.FirstDayOfNextMonth(); int(next.Month()) != month%12+1 {
					t.Fatalf("%d-%02d/%d: next month is %s", year, month, fdow, ymd(next))
				}
			}
		}
	}
}

func TestFetchRowExhaustsAfterSixRows(t *testing.T) {
	g := mustGrid(t, 2, 2024, 0)

	var days []time.Time
	for i := 0; i < WeeksPerGrid; i++ {
		row, ok := g.FetchRow()
		require.True(t, ok, "row %d", i)
		assert.Equal(t, time.Sunday, row[0].Weekday())
		days = append(days, row[:]...)
	}
	_, ok := g.FetchRow()
	require.False(t, ok)
	_, ok = g.FetchRow()
	require.False(t, ok, "exhausted grid stays exhausted")

	require.Len(t, days, DaysPerGrid)
	assert.Equal(t, ymd(g.FirstDay()), ymd(days[0]))
	assert.Equal(t, ymd(g.LastDay()), ymd(days[len(days)-1]))
	for i := 1; i < len(days); i++ {
		require.Equal(t, 1, daysBetween(days[i-1], days[i]), "gap before %s", ymd(days[i]))
	}
}

func TestResetAndRows(t *testing.T) {
	g := mustGrid(t, 6, 2015, 0)

	count := 0
	for range g.Rows() {
		count++
	}
	assert.Equal(t, WeeksPerGrid, count)

	for range g.Rows() {
		t.Fatal("drained grid yielded a row")
	}

	g.Reset()
	row, ok := g.FetchRow()
	require.True(t, ok)
	assert.Equal(t, "2015-05-31", ymd(row[0]))
	assert.Equal(t, "2015-06-06", ymd(row[6]))

	for row := range g.Rows() {
		assert.Equal(t, "2015-06-07", ymd(row[0]))
		break
	}
	row, ok = g.FetchRow()
	require.True(t, ok)
	assert.Equal(t, "2015-06-14", ymd(row[0]), "breaking out of Rows keeps the cursor")
}

func TestSetFirstDayOfWeek(t *testing.T) {
	g := mustGrid(t, 6, 2015, 0)
	_, _ = g.FetchRow()

	require.NoError(t, g.SetFirstDayOfWeek(1))
	assert.Equal(t, 1, g.FirstDayOfWeek())
	assert.Equal(t, "2015-06-01", ymd(g.FirstDay()))
	assert.Equal(t, "2015-07-12", ymd(g.LastDay()))
	row, ok := g.FetchRow()
	require.True(t, ok)
	assert.Equal(t, "2015-06-01", ymd(row[0]), "setter rewinds the cursor")

	first, last := g.FirstDay(), g.LastDay()
	require.NoError(t, g.SetFirstDayOfWeek(1))
	require.NoError(t, g.SetFirstDayOfWeek(1))
	assert.True(t, first.Equal(g.FirstDay()))
	assert.True(t, last.Equal(g.LastDay()))

	for _, d := range []int{6, 2, 0, 5, 3} {
		require.NoError(t, g.SetFirstDayOfWeek(d))
	}
	require.NoError(t, g.SetFirstDayOfWeek(0))
	assert.Equal(t, "2015-05-31", ymd(g.FirstDay()), "no drift after repeated changes")
}

func TestSetFirstDayOfWeekFailureLeavesGridUntouched(t *testing.T) {
	g := mustGrid(t, 6, 2015, 2)
	_, _ = g.FetchRow()
	first, last := g.FirstDay(), g.LastDay()

	for _, bad := range []int{-1, 7, 100} {
		err := g.SetFirstDayOfWeek(bad)
		require.ErrorIs(t, err, ErrOutOfRange)
	}

	assert.Equal(t, 2, g.FirstDayOfWeek())
	assert.True(t, first.Equal(g.FirstDay()))
	assert.True(t, last.Equal(g.LastDay()))
	row, ok := g.FetchRow()
	require.True(t, ok)
	assert.Equal(t, daysBetween(first, row[0]), DaysPerWeek, "cursor was not rewound")
}

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name  string
		opts  []GridOption
		field string
	}{
		{"month zero", []GridOption{WithMonth(0)}, "month"},
		{"month thirteen", []GridOption{WithMonth(13)}, "month"},
		{"year zero", []GridOption{WithYear(0)}, "year"},
		{"negative year", []GridOption{WithYear(-44)}, "year"},
		{"five digit year", []GridOption{WithYear(10000)}, "year"},
		{"first day seven", []GridOption{WithFirstDayOfWeek(7)}, "first day of week"},
		{"first day negative", []GridOption{WithFirstDayOfWeek(-1)}, "first day of week"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.opts...)
			require.Nil(t, g)
			require.ErrorIs(t, err, ErrOutOfRange)

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.field, rangeErr.Field)
		})
	}
}

func TestNewGridAcceptsSupportedYearEdges(t *testing.T) {
	for _, year := range []int{MinSupportedYear, MaxSupportedYear} {
		g, err := NewGrid(WithMonth(1), WithYear(year))
		require.NoError(t, err)
		assert.Equal(t, year, g.Year())

		g, err = NewGrid(WithMonth(12), WithYear(year))
		require.NoError(t, err)
		assert.Equal(t, DaysPerGrid-1, daysBetween(g.FirstDay(), g.LastDay()))
	}
}

func TestNewGridDefaultsFromClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2015, 6, 15, 13, 45, 0, 0, time.Local) }

	g, err := NewGrid(WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, 6, g.Month())
	assert.Equal(t, 2015, g.Year())
	assert.Equal(t, 0, g.FirstDayOfWeek())

	g, err = NewGrid(WithClock(clock), WithMonth(2))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Month())
	assert.Equal(t, 2015, g.Year())
}

func TestNewGridFromValues(t *testing.T) {
	g, err := NewGridFromValues("08", "2015", "1")
	require.NoError(t, err)
	assert.Equal(t, 8, g.Month())
	assert.Equal(t, 2015, g.Year())
	assert.Equal(t, 1, g.FirstDayOfWeek())
	assert.Equal(t, "2015-07-27", ymd(g.FirstDay()))

	g, err = NewGridFromValues(int64(2), 2024.0, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", ymd(g.LastDayOfMonth()))

	clock := func() time.Time { return time.Date(2023, 12, 3, 0, 0, 0, 0, time.Local) }
	g, err = NewGridFromValues(nil, nil, " 1 ", WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, 12, g.Month())
	assert.Equal(t, 2023, g.Year())
	assert.Equal(t, "2024-01-01", ymd(g.FirstDayOfNextMonth()))

	_, err = NewGridFromValues("June", 2015, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOutOfRange)

	_, err = NewGridFromValues("13", "2015", "0")
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"9", 9},
		{"09", 9},
		{"0", 0},
		{"-3", -3},
		{"2015", 2015},
		{"-007", -7},
		{"+08", 8},
		{"00", 0},
		{" 12 ", 12},
		{"0x10", 16},
		{"0b101", 5},
		{7, 7},
	}
	for _, tt := range tests {
		got, err := ParseInt(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
	for _, in := range []string{"x", "", "0x", "1.5"} {
		_, err := ParseInt(in)
		require.Error(t, err, "%q", in)
	}
}

func withLocal(t *testing.T, name string) {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

// Sao Paulo started DST at 00:00 on 2015-10-18, so that day has no midnight.
func TestGridStaysOnMidnightAcrossDSTGap(t *testing.T) {
	withLocal(t, "America/Sao_Paulo")

	g := mustGrid(t, 10, 2015, 0)
	assert.Equal(t, "2015-09-27", ymd(g.FirstDay()))
	assert.Equal(t, "2015-11-07", ymd(g.LastDay()))
	assert.Equal(t, DaysPerGrid-1, daysBetween(g.FirstDay(), g.LastDay()))
	assert.Zero(t, g.LastDay().Hour())

	count := 0
	for row := range g.Rows() {
		for _, day := range row {
			count++
			if ymd(day) == "2015-10-18" {
				assert.Equal(t, 1, day.Hour())
				continue
			}
			assert.Zero(t, day.Hour(), ymd(day))
		}
	}
	assert.Equal(t, DaysPerGrid, count)
}

func TestGridDatesAreMidnightInGapZones(t *testing.T) {
	withLocal(t, "America/Sao_Paulo")

	skipped := func(d time.Time) bool {
		y, m, day := d.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.Local).Hour() != 0
	}
	onMidnight := func(d time.Time) bool {
		return (d.Hour() == 0 && d.Minute() == 0) || skipped(d)
	}

	for year := 2014; year <= 2018; year++ {
		for month := 1; month <= 12; month++ {
			for fdow := 0; fdow < DaysPerWeek; fdow++ {
				g := mustGrid(t, month, year, fdow)
				name := ymd(g.FirstDayOfMonth())

				require.Equal(t, DaysPerGrid-1, daysBetween(g.FirstDay(), g.LastDay()), name)
				for _, b := range []time.Time{
					g.FirstDay(), g.LastDay(),
					g.FirstDayOfPreviousMonth(), g.LastDayOfPreviousMonth(),
					g.FirstDayOfNextMonth(), g.LastDayOfNextMonth(),
				} {
					require.True(t, onMidnight(b), "%s fdow %d: %s", name, fdow, b)
				}

				var prev time.Time
				for row := range g.Rows() {
					for _, day := range row {
						require.True(t, onMidnight(day), "%s fdow %d: %s", name, fdow, day)
						if !prev.IsZero() {
							require.Equal(t, 1, daysBetween(prev, day), "%s fdow %d", name, fdow)
						}
						prev = day
					}
				}
				require.Equal(t, ymd(g.LastDay()), ymd(prev), name)
			}
		}
	}
}
