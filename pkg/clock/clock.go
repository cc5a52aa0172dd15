// Package clock provides the time sources that drive an intersection run.
//
// Two implementations are available: Manual, a logical clock that only moves
// when told to and is used by tests and fast-forward runs, and Loop, a wall
// clock whose callbacks all execute on one goroutine.
package clock

import "time"

// Clock schedules callbacks relative to its own notion of elapsed time
type Clock interface {
	// Now returns the time elapsed since the clock origin
	Now() time.Duration

	// AfterFunc runs f once, d after the current time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by AfterFunc
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}
