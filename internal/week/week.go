// Package week derives the Monday-anchored bucket key that partitions
// attendance marks.
package week

import (
	"fmt"
	"time"
)

// Layout is the serialised form of a week identifier. It sorts
// lexicographically in chronological order.
const Layout = "2006-01-02"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Start returns local midnight of the Monday that opens the week containing t.
// time.Date normalises out-of-range days, so month and year rollovers are
// handled by the calendar rather than by hand.
func Start(t time.Time) time.Time {
	weekday := int(t.Weekday())
	offset := 1
	if weekday == 0 {
		offset = -6
	}
	return time.Date(t.Year(), t.Month(), t.Day()-weekday+offset, 0, 0, 0, 0, t.Location())
}

// ID returns the week identifier for t.
func ID(t time.Time) string {
	return Start(t).Format(Layout)
}

// Current returns the identifier for the clock's present week.
func Current(c Clock) string {
	if c == nil {
		c = SystemClock
	}
	return ID(c.Now())
}

// Parse validates a week identifier and returns its Monday. Identifiers that
// are well-formed dates but not Mondays are rejected.
func Parse(id string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, id, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week id %q: %w", id, err)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("invalid week id %q: not a Monday", id)
	}
	return t, nil
}
