package canopy

// remover is implemented by every listener registry so a CallbackHandle can
// unregister itself without knowing the callback's signature.
type remover interface {
	remove(id uint32)
	registered(id uint32) bool
}

// CallbackHandle allows removing a registered callback.
// The zero value is valid and Remove on it is a no-op.
type CallbackHandle struct {
	id  uint32
	reg remover
}

// Remove unregisters this callback so it no longer fires, even if its
// registry is being emitted right now. Calling Remove more than once is
// harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}

// Active reports whether the callback is still registered.
func (h CallbackHandle) Active() bool {
	return h.reg != nil && h.reg.registered(h.id)
}

type listener[F any] struct {
	id      uint32
	fn      F
	removed bool
}

// listeners is an ordered list of callbacks of one signature. Removal
// replaces the backing array instead of shifting it in place and flags the
// entry, so a callback may unregister itself or others while the list is
// being iterated and a removed callback never runs again.
type listeners[F any] struct {
	entries []*listener[F]
	nextID  uint32
}

func (l *listeners[F]) add(fn F) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, &listener[F]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: l}
}

func (l *listeners[F]) remove(id uint32) {
	for i, e := range l.entries {
		if e.id == id {
			e.removed = true
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[F]) registered(id uint32) bool {
	for _, e := range l.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// reset removes every callback.
func (l *listeners[F]) reset() {
	for _, e := range l.entries {
		e.removed = true
	}
	l.entries = nil
}

// each calls fn for every callback registered when each started, in
// registration order, skipping those removed in the meantime.
func (l *listeners[F]) each(fn func(F)) {
	for _, e := range l.entries {
		if !e.removed {
			fn(e.fn)
		}
	}
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}

// emit calls every func() listener in registration order.
func emit(l *listeners[func()]) {
	l.each(func(fn func()) { fn() })
}

// emitObject calls every func(*Object) listener in registration order.
func emitObject(l *listeners[func(*Object)], o *Object) {
	l.each(func(fn func(*Object)) { fn(o) })
}
