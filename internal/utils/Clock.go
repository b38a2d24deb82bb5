package utils

import "time"

// Clock abstracts wall-clock access so that date-dependent logic
// (filter resolution, duplicate checks) stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Today returns the clock's current calendar day, truncated to midnight UTC.
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}

// DateOf truncates a timestamp to its calendar date (midnight UTC).
// All expense dates are normalized through this before storage or comparison.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
