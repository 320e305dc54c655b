package calendar

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Supported Gregorian year range. time.Time covers far more than this, but
// anything outside four-digit years is treated as a caller bug.
const (
	MinSupportedYear = 1
	MaxSupportedYear = 9999
)

// Grid dimensions.
const (
	DaysPerWeek  = 7
	WeeksPerGrid = 6
	DaysPerGrid  = DaysPerWeek * WeeksPerGrid
)

// ErrOutOfRange is matched by every *RangeError.
var ErrOutOfRange = errors.New("value out of range")

// RangeError reports a month, year or first day of week outside its bounds.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d-%d (got %d)", e.Field, e.Min, e.Max, e.Value)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for any RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func checkRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &RangeError{Field: field, Value: value, Min: lo, Max: hi}
	}
	return nil
}

// ValidateMonth reports whether month is within 1..12.
func ValidateMonth(month int) error {
	return checkRange("month", month, 1, 12)
}

// ValidateYear reports whether year is within the supported range.
func ValidateYear(year int) error {
	return checkRange("year", year, MinSupportedYear, MaxSupportedYear)
}

// ValidateFirstDayOfWeek reports whether day is within 0..6 (0 = Sunday).
func ValidateFirstDayOfWeek(day int) error {
	return checkRange("first day of week", day, 0, DaysPerWeek-1)
}

// Row is one week of local-midnight dates.
type Row [DaysPerWeek]time.Time

// Grid is a fixed six-week window of days around a month, aligned so that
// every row starts on the configured first day of week.
//
// A Grid is not internally synchronized. Reading the boundary queries from
// several goroutines is fine as long as nobody calls SetFirstDayOfWeek, but
// row iteration mutates the cursor and must stay with a single owner.
type Grid struct {
	month          int
	year           int
	firstDayOfWeek int

	firstOfMonth time.Time
	firstDay     time.Time
	lastDay      time.Time
	cursor       time.Time
}

type gridConfig struct {
	month          *int
	year           *int
	firstDayOfWeek int
	now            func() time.Time
}

// GridOption configures NewGrid.
type GridOption func(*gridConfig)

// WithMonth selects the month (1..12). Defaults to the current local month.
func WithMonth(month int) GridOption {
	return func(c *gridConfig) {
		c.month = &month
	}
}

// WithYear selects the year. Defaults to the current local year.
func WithYear(year int) GridOption {
	return func(c *gridConfig) {
		c.year = &year
	}
}

// WithFirstDayOfWeek selects the weekday each row starts on (0 = Sunday).
func WithFirstDayOfWeek(day int) GridOption {
	return func(c *gridConfig) {
		c.firstDayOfWeek = day
	}
}

// WithClock overrides the clock used for defaulting month and year.
func WithClock(now func() time.Time) GridOption {
	return func(c *gridConfig) {
		c.now = now
	}
}

// NewGrid builds a grid. Month and year default to the current local date
// and the first day of week defaults to Sunday.
func NewGrid(opts ...GridOption) (*Grid, error) {
	cfg := gridConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	now := cfg.now().In(time.Local)
	month := int(now.Month())
	if cfg.month != nil {
		month = *cfg.month
		if err := ValidateMonth(month); err != nil {
			return nil, err
		}
	}
	year := now.Year()
	if cfg.year != nil {
		year = *cfg.year
		if err := ValidateYear(year); err != nil {
			return nil, err
		}
	}

	g := &Grid{month: month, year: year}
	if err := g.SetFirstDayOfWeek(cfg.firstDayOfWeek); err != nil {
		return nil, err
	}
	return g, nil
}

// NewGridFromValues accepts loosely typed input such as numeric strings or
// floats from config files and query strings. A nil month or year falls back
// to the current date; a nil firstDayOfWeek means Sunday.
func NewGridFromValues(month, year, firstDayOfWeek any, opts ...GridOption) (*Grid, error) {
	if month != nil {
		m, err := toInt(month)
		if err != nil {
			return nil, fmt.Errorf("month: %w", err)
		}
		opts = append(opts, WithMonth(m))
	}
	if year != nil {
		y, err := toInt(year)
		if err != nil {
			return nil, fmt.Errorf("year: %w", err)
		}
		opts = append(opts, WithYear(y))
	}
	if firstDayOfWeek != nil {
		d, err := toInt(firstDayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("first day of week: %w", err)
		}
		opts = append(opts, WithFirstDayOfWeek(d))
	}
	return NewGrid(opts...)
}

// toInt is cast.ToIntE with leading zeros stripped from plain decimal
// strings, so "08" reads as eight rather than a malformed octal literal.
// Prefixed forms such as "0x10" go to cast untouched.
func toInt(v any) (int, error) {
	if s, ok := v.(string); ok {
		v = trimLeadingZeros(strings.TrimSpace(s))
	}
	return cast.ToIntE(v)
}

func trimLeadingZeros(s string) string {
	sign, digits := "", s
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return s
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return sign + digits
}

// ParseInt coerces a command-line or config value to an int the same way
// NewGridFromValues does.
func ParseInt(v any) (int, error) {
	return toInt(v)
}

// Month returns the grid's month (1..12).
func (g *Grid) Month() int { return g.month }

// Year returns the grid's year.
func (g *Grid) Year() int { return g.year }

// FirstDayOfWeek returns the weekday rows start on (0 = Sunday).
func (g *Grid) FirstDayOfWeek() int { return g.firstDayOfWeek }

// SetFirstDayOfWeek re-derives the whole grid for a new first day of week and
// rewinds row iteration. On error the grid is left untouched.
func (g *Grid) SetFirstDayOfWeek(day int) error {
	if err := ValidateFirstDayOfWeek(day); err != nil {
		return err
	}
	g.firstDayOfWeek = day
	g.recompute()
	return nil
}

func (g *Grid) recompute() {
	g.firstOfMonth = time.Date(g.year, time.Month(g.month), 1, 0, 0, 0, 0, time.Local)
	firstSunday := addDays(g.firstOfMonth, -int(g.firstOfMonth.Weekday()))
	g.firstDay = addDays(firstSunday, g.firstDayOfWeek)
	if g.firstDay.After(g.firstOfMonth) {
		g.firstDay = addDays(g.firstDay, -DaysPerWeek)
	}
	g.lastDay = addDays(g.firstDay, DaysPerGrid-1)
	g.cursor = g.firstDay
}

// FetchRow returns the next week of the grid and advances the cursor. It
// reports false once all six rows have been returned.
func (g *Grid) FetchRow() (Row, bool) {
	var row Row
	if g.cursor.After(g.lastDay) {
		return row, false
	}
	for i := range row {
		row[i] = g.cursor
		g.cursor = addDays(g.cursor, 1)
	}
	return row, true
}

// Reset rewinds row iteration to the first day of the grid.
func (g *Grid) Reset() {
	g.cursor = g.firstDay
}

// Rows yields the remaining rows, consuming them like FetchRow does.
func (g *Grid) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for {
			row, ok := g.FetchRow()
			if !ok || !yield(row) {
				return
			}
		}
	}
}

// FirstDay is the first date shown in the grid.
func (g *Grid) FirstDay() time.Time { return g.firstDay }

// LastDay is the last date shown in the grid, 41 days after FirstDay.
func (g *Grid) LastDay() time.Time { return g.lastDay }

// FirstDayOfMonth returns midnight of the 1st of the grid's month.
func (g *Grid) FirstDayOfMonth() time.Time { return g.firstOfMonth }

// LastDayOfMonth returns midnight of the last day of the grid's month.
func (g *Grid) LastDayOfMonth() time.Time {
	return lastDayOfMonthContaining(g.firstOfMonth)
}

// FirstDayOfPreviousMonth returns midnight of the 1st of the month before.
func (g *Grid) FirstDayOfPreviousMonth() time.Time {
	return firstDayOfMonthContaining(g.LastDayOfPreviousMonth())
}

// LastDayOfPreviousMonth returns the day before FirstDayOfMonth.
func (g *Grid) LastDayOfPreviousMonth() time.Time {
	return addDays(g.firstOfMonth, -1)
}

// FirstDayOfNextMonth returns midnight of the 1st of the month that holds
// LastDay. Navigation follows the visible trailing edge of the grid.
func (g *Grid) FirstDayOfNextMonth() time.Time {
	return firstDayOfMonthContaining(g.lastDay)
}

// LastDayOfNextMonth returns midnight of the last day of the month that
// holds LastDay.
func (g *Grid) LastDayOfNextMonth() time.Time {
	return lastDayOfMonthContaining(g.lastDay)
}

// addDays moves n calendar days and lands on midnight of that day, or on the
// first instant after it when a DST gap skips midnight. Unlike AddDate the
// hour of t is not carried over.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

func firstDayOfMonthContaining(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Day 0 of the following month normalises to the last day of this one.
func lastDayOfMonthContaining(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location())
}
