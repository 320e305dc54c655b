package holidays

import (
	"encoding/json"
	"strconv"
	"time"
)

// Entry is a single day in the holidays JSON file.
type Entry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	// Optional fields
	After  *bool  `json:"after,omitempty"`
	Target string `json:"target,omitempty"`
	Rest   *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts "holiday" as either a boolean or a string; some
// published files use the holiday name in place of true.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	aux := &struct {
		Holiday any `json:"holiday"`
		*alias
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	switch v := aux.Holiday.(type) {
	case bool:
		e.Holiday = v
	case string:
		e.Holiday = v != ""
	default:
		e.Holiday = false
	}
	return nil
}

// file is the on-disk layout: one element per year, days keyed by "MM-DD".
type file []struct {
	Year    string            `json:"year"`
	Holiday map[string]*Entry `json:"holiday"`
}

// Info is what the calendar needs to know about a marked day.
type Info struct {
	IsHoliday bool // false means a make-up working day
	Name      string
}

// YearRange summarises which years a Set covers.
type YearRange struct {
	Min   int
	Max   int
	Count int
}

// Set indexes entries by year and then by "MM-DD".
type Set map[string]map[string]*Entry

// Lookup returns the marking for the calendar day of t, or nil.
func (s Set) Lookup(t time.Time) *Info {
	if s == nil {
		return nil
	}
	days, ok := s[strconv.Itoa(t.Year())]
	if !ok {
		return nil
	}
	entry, ok := days[t.Format("01-02")]
	if !ok || entry == nil {
		return nil
	}
	return &Info{
		IsHoliday: entry.Holiday,
		Name:      entry.Name,
	}
}

// Years reports the span of years present. ok is false when no key parses
// as a year.
func (s Set) Years() (YearRange, bool) {
	var r YearRange
	for key := range s {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if r.Count == 0 || year < r.Min {
			r.Min = year
		}
		if r.Count == 0 || year > r.Max {
			r.Max = year
		}
		r.Count++
	}
	return r, r.Count > 0
}
