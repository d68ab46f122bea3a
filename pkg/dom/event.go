package dom

// Event is a notification dispatched on an element. Events are never
// cancelable; bubbling events propagate from the target to the root.
type Event struct {
	// Type is the event name.
	Type string
	// Target is the element the event was dispatched on.
	Target *Element
	// Bubbles controls whether ancestors observe the event.
	Bubbles bool
}

// AddEventListener registers fn for events of the given type dispatched on
// or bubbling through this element. Returns an unsubscribe function.
func (e *Element) AddEventListener(eventType string, fn func(*Event)) func() {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{id: e.nextListenerID, fn: fn}
	e.nextListenerID++
	e.listeners[eventType] = append(e.listeners[eventType], l)
	return func() {
		list := e.listeners[eventType]
		for i, candidate := range list {
			if candidate == l {
				e.listeners[eventType] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// RemoveAllListeners drops every listener registered on this element.
// Listeners on descendants are unaffected.
func (e *Element) RemoveAllListeners() {
	e.listeners = nil
}

// DispatchEvent delivers evt to listeners on this element and, if the event
// bubbles, on each ancestor up to the root. The listener list is copied per
// node so listeners may unsubscribe during dispatch.
func (e *Element) DispatchEvent(evt *Event) {
	if evt == nil || evt.Type == "" {
		return
	}
	evt.Target = e
	for node := e; node != nil; node = node.parent {
		list := node.listeners[evt.Type]
		if len(list) > 0 {
			copied := make([]*listener, len(list))
			copy(copied, list)
			for _, l := range copied {
				l.fn(evt)
			}
		}
		if !evt.Bubbles {
			return
		}
	}
}
