// Package system provides the wall clock used for config timestamps and
// launch timing.
package system

import "time"

// TimestampLayout is the human readable layout written into the config record.
const TimestampLayout = "2006-01-02 15:04:05"

// Clock reads time.Now in UTC.
type Clock struct{}

// New creates a UTC Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Stamp formats t with TimestampLayout.
func Stamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
