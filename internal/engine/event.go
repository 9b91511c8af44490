package engine

// ListenerID identifies a subscription so it can be removed later.
// The zero value is never handed out.
type ListenerID uint64

type listener[F any] struct {
	id ListenerID
	fn F
}

// Signal is a multi-cast event without a payload.
type Signal struct {
	listeners []listener[func()]
	nextID    ListenerID
}

// AddListener subscribes callback and returns its ID. A nil callback is
// ignored and yields the zero ID.
func (s *Signal) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	s.nextID++
	s.listeners = append(s.listeners, listener[func()]{id: s.nextID, fn: callback})
	return s.nextID
}

// RemoveListener drops the subscription with the given ID. Unknown IDs are ignored.
func (s *Signal) RemoveListener(id ListenerID) bool {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners clears all listeners
func (s *Signal) RemoveAllListeners() {
	s.listeners = nil
}

// Invoke calls every listener in subscription order. Listeners added or
// removed during Invoke take effect on the next call.
func (s *Signal) Invoke() {
	for _, l := range s.listeners {
		l.fn()
	}
}

func (s *Signal) ListenerCount() int {
	return len(s.listeners)
}

// Event is a multi-cast event carrying one argument.
type Event[T any] struct {
	listeners []listener[func(T)]
	nextID    ListenerID
}

func (e *Event[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[func(T)]{id: e.nextID, fn: callback})
	return e.nextID
}

func (e *Event[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *Event[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
