package listtest

import (
	"sync"

	"github.com/go-drift/listkit/pkg/sched"
)

// CountingScheduler wraps a FrameScheduler and counts how many reads and
// writes were scheduled, for asserting scheduling idempotence.
type CountingScheduler struct {
	sched.FrameScheduler

	mu     sync.Mutex
	reads  int
	writes int
}

// ScheduleRead counts and queues fn.
func (s *CountingScheduler) ScheduleRead(fn func()) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	s.FrameScheduler.ScheduleRead(fn)
}

// ScheduleWrite counts and queues fn.
func (s *CountingScheduler) ScheduleWrite(fn func()) {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	s.FrameScheduler.ScheduleWrite(fn)
}

// Reads returns how many reads were scheduled.
func (s *CountingScheduler) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Writes returns how many writes were scheduled.
func (s *CountingScheduler) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
