package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lululau/monthgrid/internal/holidays"
)

// ViewMode indicates whether we display a single month or an entire year.
type ViewMode int

const (
	ModeMonth ViewMode = iota
	ModeYear
)

// Request captures the year/month/mode that should be rendered.
type Request struct {
	Year  int
	Month int
	Mode  ViewMode
}

// RequestFor returns a month request for the month containing t.
func RequestFor(t time.Time) Request {
	return Request{Year: t.Year(), Month: int(t.Month()), Mode: ModeMonth}
}

// Normalize keeps the month within 1..12 by rolling the year value.
func (r Request) Normalize() Request {
	for r.Month > 12 {
		r.Month -= 12
		r.Year++
	}
	for r.Month < 1 {
		r.Month += 12
		r.Year--
	}
	return r
}

// Validate reports a RangeError for an unsupported year or month.
func (r Request) Validate() error {
	if err := ValidateYear(r.Year); err != nil {
		return err
	}
	if r.Mode == ModeYear {
		return nil
	}
	return ValidateMonth(r.Month)
}

// NextMonth moves the request to the following month.
func (r Request) NextMonth() Request {
	r.Month++
	return r.Normalize()
}

// PreviousMonth moves the request to the preceding month.
func (r Request) PreviousMonth() Request {
	r.Month--
	return r.Normalize()
}

// NextYear moves to the following year.
func (r Request) NextYear() Request {
	r.Year++
	return r
}

// PreviousYear moves to the preceding year.
func (r Request) PreviousYear() Request {
	r.Year--
	return r
}

// Day is a single cell of a month view.
type Day struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Holiday *holidays.Info
}

// MonthView is a grid materialised into six weeks of days.
type MonthView struct {
	Year           int
	Month          time.Month
	Title          string
	FirstDayOfWeek int
	Weeks          [][]Day

	// Pagination targets taken from the grid boundaries.
	Previous time.Time
	Next     time.Time
}

// PreviousRequest is the request for the month before this view.
func (v MonthView) PreviousRequest() Request { return RequestFor(v.Previous) }

// NextRequest is the request for the month after this view's trailing edge.
func (v MonthView) NextRequest() Request { return RequestFor(v.Next) }

// Weekdays returns the header order for this view.
func (v MonthView) Weekdays() [DaysPerWeek]time.Weekday {
	return WeekdayOrder(v.FirstDayOfWeek)
}

// WeekdayOrder lists the weekdays of a row starting at firstDayOfWeek.
func WeekdayOrder(firstDayOfWeek int) [DaysPerWeek]time.Weekday {
	var order [DaysPerWeek]time.Weekday
	for i := range order {
		order[i] = time.Weekday((firstDayOfWeek + i) % DaysPerWeek)
	}
	return order
}

// Service materialises month/year views from grids.
type Service struct {
	now            func() time.Time
	holidayData    holidays.Set
	firstDayOfWeek int
	logger         *zap.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHolidays sets the holiday data for the service.
func WithHolidays(data holidays.Set) Option {
	return func(s *Service) {
		s.holidayData = data
	}
}

// WithWeekStart sets the weekday rows start on. Invalid values are reported
// by NewService.
func WithWeekStart(firstDayOfWeek int) Option {
	return func(s *Service) {
		s.firstDayOfWeek = firstDayOfWeek
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateFirstDayOfWeek(s.firstDayOfWeek); err != nil {
		return nil, err
	}
	return s, nil
}

// HasHolidayData reports whether a holiday overlay is loaded.
func (s *Service) HasHolidayData() bool {
	return len(s.holidayData) > 0
}

// FirstDayOfWeek returns the weekday rows start on.
func (s *Service) FirstDayOfWeek() int {
	return s.firstDayOfWeek
}

// SetFirstDayOfWeek changes the weekday rows start on. The previous value is
// kept on error.
func (s *Service) SetFirstDayOfWeek(day int) error {
	if err := ValidateFirstDayOfWeek(day); err != nil {
		return err
	}
	s.firstDayOfWeek = day
	return nil
}

// Grid builds the raw grid for a month with the service's settings.
func (s *Service) Grid(year, month int) (*Grid, error) {
	return NewGrid(
		WithYear(year),
		WithMonth(month),
		WithFirstDayOfWeek(s.firstDayOfWeek),
		WithClock(s.now),
	)
}

// Month builds a MonthView.
func (s *Service) Month(year, month int) (MonthView, error) {
	grid, err := s.Grid(year, month)
	if err != nil {
		return MonthView{}, err
	}
	s.logger.Debug("grid built",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("first_day_of_week", s.firstDayOfWeek),
		zap.Time("first_day", grid.FirstDay()),
		zap.Time("last_day", grid.LastDay()),
	)

	now := s.now().In(time.Local)
	current := grid.FirstDayOfMonth().Month()
	weeks := make([][]Day, 0, WeeksPerGrid)
	for row := range grid.Rows() {
		week := make([]Day, 0, DaysPerWeek)
		for _, date := range row {
			week = append(week, Day{
				Date:    date,
				InMonth: date.Month() == current,
				IsToday: sameDay(date, now),
				Holiday: s.holidayData.Lookup(date),
			})
		}
		weeks = append(weeks, week)
	}

	return MonthView{
		Year:           year,
		Month:          current,
		Title:          fmt.Sprintf("%s %d", current, year),
		FirstDayOfWeek: s.firstDayOfWeek,
		Weeks:          weeks,
		Previous:       grid.FirstDayOfPreviousMonth(),
		Next:           grid.FirstDayOfNextMonth(),
	}, nil
}

// Year returns the MonthView list for an entire year.
func (s *Service) Year(year int) ([]MonthView, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	months := make([]MonthView, 0, 12)
	for m := 1; m <= 12; m++ {
		view, err := s.Month(year, m)
		if err != nil {
			return nil, err
		}
		months = append(months, view)
	}
	return months, nil
}

// Views returns the month views a request asks for.
func (s *Service) Views(req Request) ([]MonthView, error) {
	if req.Mode == ModeYear {
		return s.Year(req.Year)
	}
	view, err := s.Month(req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	return []MonthView{view}, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
