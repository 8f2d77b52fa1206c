package core

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range")

// Dated is anything carrying a creation timestamp.
type Dated interface {
	When() time.Time
}

// Range is an inclusive calendar-day interval. Time-of-day on either
// bound is ignored when filtering.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return ErrInvalidRange
	}
	return nil
}

// DateOnly truncates a timestamp to its own wall-clock calendar date.
// An entry logged at 23:59 on the last day of the range still falls
// inside the range.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterByRange returns the entries whose calendar date lies within the
// range, inclusive on both ends, preserving the input order. The input
// slice is never mutated. From > To yields an empty result, not an error.
func FilterByRange[T Dated](items []T, r Range) []T {
	from := DateOnly(r.From)
	to := DateOnly(r.To)
	out := make([]T, 0, len(items))
	for _, it := range items {
		d := DateOnly(it.When())
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, it)
	}
	return out
}
