package util

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "info", "json").Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json logger output = %q, want JSON msg field", buf.String())
	}

	buf.Reset()
	newLogger(&buf, "info", "text").Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text logger output = %q, want msg=hello", buf.String())
	}

	buf.Reset()
	newLogger(&buf, "warn", "json").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("warn logger emitted info record: %q", buf.String())
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if time.Duration(c) != 9*time.Hour+30*time.Minute {
		t.Errorf("ParseClock(09:30) = %v, want 9h30m", time.Duration(c))
	}
	if got := c.String(); got != "09:30" {
		t.Errorf("String() = %q, want %q", got, "09:30")
	}

	c, err = ParseClock("23:59:30")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if got := c.String(); got != "23:59:30" {
		t.Errorf("String() = %q, want %q", got, "23:59:30")
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("ParseClock(25:00) returned nil error")
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: MustClock("09:30"), End: MustClock("16:00"), Location: time.UTC}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 6, 3, 9, 29, 59, 0, time.UTC), false},
		{time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC), true},
		{time.Date(2024, 6, 3, 15, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.at); got != tc.want {
			t.Errorf("Contains(%s) = %v, want %v", tc.at.Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestWindowWrapsMidnight(t *testing.T) {
	w := Window{Start: MustClock("23:55"), End: MustClock("00:05")}

	if !w.Contains(time.Date(2024, 6, 3, 23, 58, 0, 0, time.UTC)) {
		t.Error("23:58 should be inside a 23:55-00:05 window")
	}
	if !w.Contains(time.Date(2024, 6, 4, 0, 2, 0, 0, time.UTC)) {
		t.Error("00:02 should be inside a 23:55-00:05 window")
	}
	if w.Contains(time.Date(2024, 6, 4, 0, 5, 0, 0, time.UTC)) {
		t.Error("00:05 should be outside a 23:55-00:05 window")
	}
}

func TestWindowWrapsMidnightWeekdays(t *testing.T) {
	w := Window{Start: MustClock("22:00"), End: MustClock("02:00"), Weekdays: []time.Weekday{time.Friday}}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"friday 23:00", time.Date(2024, 6, 7, 23, 0, 0, 0, time.UTC), true},
		{"saturday 01:00 (opened friday)", time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC), true},
		{"friday 01:00 (opened thursday)", time.Date(2024, 6, 7, 1, 0, 0, 0, time.UTC), false},
		{"saturday 23:00", time.Date(2024, 6, 8, 23, 0, 0, 0, time.UTC), false},
		{"saturday 02:00", time.Date(2024, 6, 8, 2, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := w.Contains(tc.at); got != tc.want {
			t.Errorf("%s: Contains = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWindowLocationAndWeekdays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	w := Window{
		Start:    MustClock("09:30"),
		End:      MustClock("16:00"),
		Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Location: ny,
	}

	// 14:00 UTC on a Monday in June is 10:00 EDT.
	if !w.Contains(time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)) {
		t.Error("Monday 10:00 ET should be inside the session")
	}
	// Same clock on a Saturday.
	if w.Contains(time.Date(2024, 6, 8, 14, 0, 0, 0, time.UTC)) {
		t.Error("Saturday should be outside the session")
	}
}

func TestWindowEmpty(t *testing.T) {
	w := Window{Start: MustClock("12:00"), End: MustClock("12:00")}
	if w.Contains(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)) {
		t.Error("empty window should contain nothing")
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"mon": time.Monday, "Friday": time.Friday, "SUN": time.Sunday} {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseWeekday("someday"); err == nil {
		t.Error(`ParseWeekday("someday") returned nil error`)
	}
}

func TestRollingWindowCount(t *testing.T) {
	rw := NewRollingWindow(time.Minute)
	base := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

	rw.Record(base)
	rw.Record(base.Add(10 * time.Second))
	rw.Record(base.Add(5 * time.Second)) // out of order

	if got := rw.CountBetween(base.Add(-time.Second), base.Add(10*time.Second)); got != 3 {
		t.Errorf("CountBetween = %d, want 3", got)
	}
	// The lower bound is exclusive.
	if got := rw.CountBetween(base, base.Add(10*time.Second)); got != 2 {
		t.Errorf("CountBetween with exclusive lower bound = %d, want 2", got)
	}
	if got := rw.CountBetween(base.Add(20*time.Second), base.Add(30*time.Second)); got != 0 {
		t.Errorf("CountBetween on empty range = %d, want 0", got)
	}
}

func TestRollingWindowPrune(t *testing.T) {
	rw := NewRollingWindow(time.Minute)
	base := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

	rw.Record(base)
	rw.Record(base.Add(30 * time.Second))
	rw.Record(base.Add(2 * time.Minute))

	if got := rw.Len(); got != 1 {
		t.Errorf("Len() after prune = %d, want 1", got)
	}
}

func TestRollingWindowOutOfOrder(t *testing.T) {
	rw := NewRollingWindow(2 * time.Minute)
	base := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

	rw.Record(base)
	rw.Record(base.Add(50 * time.Second))
	rw.Record(base.Add(90 * time.Second))

	// A late submission at base+55s still sees both earlier events in its
	// one-minute window.
	at := base.Add(55 * time.Second)
	if got := rw.CountBetween(at.Add(-time.Minute), at); got != 2 {
		t.Errorf("CountBetween before late record = %d, want 2", got)
	}

	// Recording it does not drop anything the newer events kept.
	rw.Record(at)
	if got := rw.Len(); got != 4 {
		t.Errorf("Len() after out-of-order record = %d, want 4", got)
	}
	if got := rw.CountBetween(at.Add(-time.Minute), at); got != 3 {
		t.Errorf("CountBetween after late record = %d, want 3", got)
	}
}

func TestRollingWindowConcurrent(t *testing.T) {
	rw := NewRollingWindow(0)
	base := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rw.Record(base.Add(time.Duration(i) * time.Millisecond))
		}(i)
	}
	wg.Wait()

	if got := rw.CountBetween(base.Add(-time.Second), base.Add(time.Second)); got != 50 {
		t.Errorf("CountBetween = %d, want 50", got)
	}
}
