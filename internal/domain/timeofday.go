package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a naive wall-clock time expressed as minutes since midnight.
// The engine treats all times as local wall-clock values; there is no
// timezone reconciliation.
type TimeOfDay int

// NewTimeOfDay returns the TimeOfDay for the given hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" (seconds ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
			return 0, fmt.Errorf("parse time of day %q: %w", s, err)
		}
	}
	t := NewTimeOfDay(hour, minute)
	if !t.Valid() || minute > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", s)
	}
	return t, nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < 24*60
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }

// MinutesFrom returns the signed distance from o to t in minutes.
func (t TimeOfDay) MinutesFrom(o TimeOfDay) int {
	return int(t) - int(o)
}

// DateOnly strips the clock from t, keeping year/month/day in UTC. Calendar
// dates are compared through this normalization.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
