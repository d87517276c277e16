package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned when an interval's end is not after its start.
var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range [Start, End) with minute granularity.
// A booking ending at 12:00 does not overlap one starting at 12:00.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds an interval, truncating both instants to the minute.
func NewInterval(start, end time.Time) (Interval, error) {
	start = start.UTC().Truncate(time.Minute)
	end = end.UTC().Truncate(time.Minute)
	if !end.After(start) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Day returns the interval covering the whole calendar day of t in UTC.
func Day(t time.Time) Interval {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
