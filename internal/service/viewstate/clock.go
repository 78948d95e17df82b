package viewstate

import (
	"time"
)

// Clock abstracts wall time so TTL logic is testable without real delays.
type Clock interface {
	Now() time.Time
}

// CancelFunc cancels a pending scheduled call. Safe to call more than once.
type CancelFunc func()

// Scheduler abstracts delayed execution so debounce logic is testable
// without real timers. Implementations deliver fn on the caller's event
// loop; the controller is not safe for concurrent use from multiple
// goroutines.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// SystemScheduler returns a time.AfterFunc-backed scheduler.
func SystemScheduler() Scheduler { return timerScheduler{} }
