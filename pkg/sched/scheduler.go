// Package sched provides read/write-separated frame scheduling.
//
// DOM measurement and mutation are batched into phases: within one frame all
// scheduled reads run before any scheduled writes, so measurements observe the
// document as it was before that frame's mutations and no callback forces a
// synchronous layout in between. Callbacks scheduled while a frame is being
// flushed land in the next frame.
package sched

import "sync"

// Scheduler batches deferred DOM reads and writes.
type Scheduler interface {
	// ScheduleRead queues fn for the read phase of the next frame.
	ScheduleRead(fn func())
	// ScheduleWrite queues fn for the write phase of the next frame.
	ScheduleWrite(fn func())
}

// FrameScheduler is the standard Scheduler. It accumulates callbacks until
// the host drives a frame with Flush.
type FrameScheduler struct {
	mu     sync.Mutex
	reads  []func()
	writes []func()
}

// NewFrameScheduler creates an empty FrameScheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// ScheduleRead queues fn for the read phase of the next frame.
func (s *FrameScheduler) ScheduleRead(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.reads = append(s.reads, fn)
	s.mu.Unlock()
}

// ScheduleWrite queues fn for the write phase of the next frame.
func (s *FrameScheduler) ScheduleWrite(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.writes = append(s.writes, fn)
	s.mu.Unlock()
}

// Flush runs one frame: every queued read, then every queued write, in the
// order scheduled. Callbacks queued during the flush are held for the next
// frame.
func (s *FrameScheduler) Flush() {
	s.mu.Lock()
	reads := s.reads
	writes := s.writes
	s.reads = nil
	s.writes = nil
	s.mu.Unlock()

	for _, fn := range reads {
		fn()
	}
	for _, fn := range writes {
		fn()
	}
}

// HasWork returns true if any callbacks are queued.
func (s *FrameScheduler) HasWork() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reads) > 0 || len(s.writes) > 0
}

// FlushAll drives frames until no work remains. Useful for hosts without a
// frame loop, such as one-shot server-side rendering.
func (s *FrameScheduler) FlushAll() {
	for s.HasWork() {
		s.Flush()
	}
}

// SyncScheduler runs every callback immediately on the scheduling goroutine.
// It trades the read-before-write batching guarantee for determinism, which
// is what most unit tests want.
type SyncScheduler struct{}

// ScheduleRead runs fn immediately.
func (SyncScheduler) ScheduleRead(fn func()) {
	if fn != nil {
		fn()
	}
}

// ScheduleWrite runs fn immediately.
func (SyncScheduler) ScheduleWrite(fn func()) {
	if fn != nil {
		fn()
	}
}
