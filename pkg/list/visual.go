package list

import (
	"sync"

	"github.com/go-drift/listkit/pkg/dom"
	"github.com/go-drift/listkit/pkg/sched"
)

// visualState toggles the host-supplied loading placeholder and error
// fallback. All mutations go through the scheduler's write phase so toggles
// never force a synchronous layout.
//
// The fallback flag is set eagerly, before the scheduled write executes, so
// concurrent callers cannot schedule duplicate writes for the same
// transition. Placeholder hiding is unconditional: a loading indicator must
// never remain visible alongside an error indicator.
type visualState struct {
	scheduler   sched.Scheduler
	placeholder *dom.Element
	fallback    *dom.Element

	mu            sync.Mutex
	fallbackShown bool
}

func newVisualState(scheduler sched.Scheduler, placeholder, fallback *dom.Element) *visualState {
	return &visualState{
		scheduler:   scheduler,
		placeholder: placeholder,
		fallback:    fallback,
	}
}

// showPlaceholder reveals the loading affordance for an in-flight cycle.
func (v *visualState) showPlaceholder() {
	if v.placeholder == nil {
		return
	}
	v.scheduler.ScheduleWrite(func() {
		v.placeholder.SetHidden(false)
	})
}

// hidePlaceholder removes the loading affordance once a cycle settles.
func (v *visualState) hidePlaceholder() {
	if v.placeholder == nil {
		return
	}
	v.scheduler.ScheduleWrite(func() {
		v.placeholder.SetHidden(true)
	})
}

// showFallback toggles the error affordance. With no fallback configured
// nothing is scheduled at all. A toggle to the current state is a no-op.
func (v *visualState) showFallback(show bool) {
	if v.fallback == nil {
		return
	}
	v.mu.Lock()
	if v.fallbackShown == show {
		v.mu.Unlock()
		return
	}
	v.fallbackShown = show
	v.mu.Unlock()

	v.scheduler.ScheduleWrite(func() {
		v.fallback.SetHidden(!show)
	})
}
