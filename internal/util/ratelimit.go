package util

import (
	"sort"
	"sync"
	"time"
)

// RollingWindow records event timestamps and counts how many fall inside a
// trailing interval. Time is supplied by the caller, never read from the
// wall clock, so replays produce identical counts.
//
// Counts are exact for any interval that starts no earlier than the newest
// event minus the horizon. Callers that record times in non-decreasing
// order and query windows no longer than the horizon always get exact
// counts; a caller going back in time by more than horizon-window may see
// events already dropped.
type RollingWindow struct {
	horizon time.Duration // retention behind each recorded time
	mu      sync.Mutex
	events  []time.Time // sorted ascending
}

// NewRollingWindow creates a RollingWindow that retains events for at least
// horizon behind the newest recorded event. A zero horizon keeps everything.
func NewRollingWindow(horizon time.Duration) *RollingWindow {
	return &RollingWindow{horizon: horizon}
}

// Record adds an event at t. Out-of-order timestamps are kept sorted.
func (rw *RollingWindow) Record(t time.Time) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	i := sort.Search(len(rw.events), func(i int) bool { return rw.events[i].After(t) })
	rw.events = append(rw.events, time.Time{})
	copy(rw.events[i+1:], rw.events[i:])
	rw.events[i] = t

	rw.prune(t.Add(-rw.horizon))
}

// CountBetween returns the number of events in the half-open interval
// (since, until].
func (rw *RollingWindow) CountBetween(since, until time.Time) int {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	lo := sort.Search(len(rw.events), func(i int) bool { return rw.events[i].After(since) })
	hi := sort.Search(len(rw.events), func(i int) bool { return rw.events[i].After(until) })
	if hi < lo {
		return 0
	}
	return hi - lo
}

// Len returns the number of retained events.
func (rw *RollingWindow) Len() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return len(rw.events)
}

// prune drops events before cutoff. A cutoff is only ever derived from the
// time just recorded, so an out-of-order Record never drops more than an
// in-order one would have. Must be called with mu held.
func (rw *RollingWindow) prune(cutoff time.Time) {
	if rw.horizon <= 0 || len(rw.events) == 0 || !rw.events[0].Before(cutoff) {
		return
	}
	i := sort.Search(len(rw.events), func(i int) bool { return !rw.events[i].Before(cutoff) })
	if i > 0 {
		rw.events = append(rw.events[:0], rw.events[i:]...)
	}
}
