package util

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a time of day, stored as an offset from local midnight.
type Clock time.Duration

// ParseClock parses "15:04" or "15:04:05" into a Clock.
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second
			return Clock(d), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q (want HH:MM or HH:MM:SS)", s)
}

// MustClock is ParseClock for literals; it panics on malformed input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	d := time.Duration(c)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// clockOf returns the time of day of t in its own location.
func clockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

// Window is a recurring daily time-of-day interval [Start, End) evaluated in
// Location. When End is before Start the window wraps past midnight. A
// window with Start == End is empty. If Weekdays is non-empty the window only
// applies on those local weekdays; for wrapping windows the weekday is the
// day the window opened, so a Friday 22:00-02:00 window covers Saturday 01:00.
type Window struct {
	Start    Clock
	End      Clock
	Weekdays []time.Weekday
	Location *time.Location
}

// Contains reports whether t falls inside the window. It depends only on t
// and the window's fields.
func (w Window) Contains(t time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	c := clockOf(lt)

	opened := lt
	switch {
	case w.Start == w.End:
		return false
	case w.Start < w.End:
		if c < w.Start || c >= w.End {
			return false
		}
	default:
		if c >= w.End && c < w.Start {
			return false
		}
		if c < w.End {
			opened = lt.AddDate(0, 0, -1)
		}
	}
	return len(w.Weekdays) == 0 || containsWeekday(w.Weekdays, opened.Weekday())
}

func (w Window) String() string {
	loc := "UTC"
	if w.Location != nil {
		loc = w.Location.String()
	}
	return fmt.Sprintf("%s-%s %s", w.Start, w.End, loc)
}

// AnyContains reports whether any of the windows contains t.
func AnyContains(windows []Window, t time.Time) (Window, bool) {
	for _, w := range windows {
		if w.Contains(t) {
			return w, true
		}
	}
	return Window{}, false
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, wd := range days {
		if wd == d {
			return true
		}
	}
	return false
}

// ParseWeekday maps a three-letter or full English day name to a Weekday,
// ignoring case.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
