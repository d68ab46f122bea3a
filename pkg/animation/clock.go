// Package animation drives the timed show/hide transitions that the
// animation-control collaborator operates on.
//
// A [Player] owns one transition and exposes the full control surface the
// action dispatcher needs: start, restart, pause, resume, toggle, seek,
// finish, cancel. Progress runs from 0 to 1 over the configured duration and
// is advanced by the host frame loop via [StepPlayers].
package animation

import "time"

// Clock provides time for players. Tests inject a fake clock via SetClock
// for deterministic progress.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// clock is the package-level time source, replaceable for testing.
var clock Clock = realClock{}

// SetClock replaces the animation clock. Returns the previous clock so
// callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	prev := clock
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }
