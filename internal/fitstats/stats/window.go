package stats

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format")

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns the UTC calendar day containing t.
func DayWindow(t time.Time) Window {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Window{
		Start: start,
		End:   start.Add(24 * time.Hour),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ParseDay parses a YYYY-MM-DD date into its UTC day window.
func ParseDay(date string) (Window, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return Window{}, ErrInvalidDate
	}
	return DayWindow(day), nil
}

// ParseDateRange parses inclusive YYYY-MM-DD start and end dates into
// the window [start, end + 1 day), so the whole end day is included.
func ParseDateRange(start, end string) (Window, error) {
	startDay, err := ParseDay(start)
	if err != nil {
		return Window{}, err
	}
	endDay, err := ParseDay(end)
	if err != nil {
		return Window{}, err
	}
	if endDay.Start.Before(startDay.Start) {
		return Window{}, ErrInvalidDate
	}
	return Window{
		Start: startDay.Start,
		End:   endDay.End,
	}, nil
}
