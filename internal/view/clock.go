package view

import "time"

// Clock supplies the current time for double-click coalescing. Injectable so
// the toggle state machine is testable without wall-clock waits.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
