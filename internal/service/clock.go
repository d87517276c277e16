package service

import "time"

// SystemClock reads the wall clock, truncated to minute precision in UTC to
// match stored booking bounds.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Minute)
}
