// Package events provides the small event-emitter capability shared by every
// stagehand component that reports lifecycle changes (interpolators, screens,
// the manager, the viewport and text drawers).
//
// An Emitter is embedded by value:
//
//	type Linear struct {
//	    events.Emitter[Event]
//	    ...
//	}
//
//	l.On("complete", func(e Event) { ... })
//
// Handlers are plain funcs, which Go cannot compare, so listeners are removed
// through the *Listener handle returned by On and Once.
package events

// Handler receives an event payload.
type Handler[E any] func(event E)

// Listener is the handle of a single subscription.
type Listener[E any] struct {
	eventType string
	handler   Handler[E]
	once      bool
	removed   bool
}

// Type returns the event type the listener is subscribed to.
func (l *Listener[E]) Type() string {
	return l.eventType
}

// Emitter stores listeners by event type. The zero value is ready to use.
// An Emitter is not safe for concurrent use; stagehand drives everything from a
// single scheduler goroutine.
type Emitter[E any] struct {
	listeners map[string][]*Listener[E]
}

// On subscribes handler to events of the given type. A nil handler is ignored
// and returns nil.
func (e *Emitter[E]) On(eventType string, handler Handler[E]) *Listener[E] {
	return e.add(eventType, handler, false)
}

// Once subscribes handler for the next event of the given type only.
func (e *Emitter[E]) Once(eventType string, handler Handler[E]) *Listener[E] {
	return e.add(eventType, handler, true)
}

func (e *Emitter[E]) add(eventType string, handler Handler[E], once bool) *Listener[E] {
	if handler == nil {
		return nil
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener[E])
	}
	l := &Listener[E]{eventType: eventType, handler: handler, once: once}
	e.listeners[eventType] = append(e.listeners[eventType], l)
	return l
}

// Off removes a single listener. It reports whether the listener was still subscribed.
func (e *Emitter[E]) Off(l *Listener[E]) bool {
	if l == nil || l.removed || e.listeners == nil {
		return false
	}
	list := e.listeners[l.eventType]
	for i, candidate := range list {
		if candidate == l {
			l.removed = true
			e.listeners[l.eventType] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// OffType removes every listener of the given type and returns how many were removed.
func (e *Emitter[E]) OffType(eventType string) int {
	list := e.listeners[eventType]
	for _, l := range list {
		l.removed = true
	}
	delete(e.listeners, eventType)
	return len(list)
}

// Clear removes all listeners.
func (e *Emitter[E]) Clear() {
	for _, list := range e.listeners {
		for _, l := range list {
			l.removed = true
		}
	}
	e.listeners = nil
}

// Count returns the number of listeners subscribed to eventType.
func (e *Emitter[E]) Count(eventType string) int {
	return len(e.listeners[eventType])
}

// Trigger calls every listener subscribed to eventType with event, in
// subscription order. The listener list is snapshotted first: listeners added
// while dispatching are called from the next Trigger on, listeners removed while
// dispatching are skipped if they have not run yet.
func (e *Emitter[E]) Trigger(eventType string, event E) {
	list := e.listeners[eventType]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*Listener[E], len(list))
	copy(snapshot, list)

	for _, l := range snapshot {
		if l.removed {
			continue
		}
		if l.once {
			e.Off(l)
		}
		l.handler(event)
	}
}
