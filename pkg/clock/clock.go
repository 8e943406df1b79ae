// Package clock abstracts wall-clock time so loops that wait on timers can be
// driven by a fake in tests.
package clock

import "time"

// SystemClock delegates to the time package. It is the implementation used
// outside tests.
type SystemClock struct{}

// After delivers the current time on the returned channel once d has elapsed.
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Now reports the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
