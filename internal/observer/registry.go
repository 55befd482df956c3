// Package observer implements the synchronous publish/subscribe registry shared
// by the cart and order stores.
//
// A Registry is not safe for concurrent use. Callers that share a store across
// goroutines serialize access themselves.
package observer

import "reflect"

// Observer receives a payload-free notification after every mutation and
// re-reads whatever state it needs.
type Observer interface {
	Notify()
}

// Func adapts a plain function to Observer. Funcs are not comparable, so every
// subscription of a Func is a distinct registration.
type Func func()

func (f Func) Notify() { f() }

type entry struct {
	id       uint64
	observer Observer
}

type Registry struct {
	nextID  uint64
	entries []entry
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	registry *Registry
	id       uint64
}

// Unsubscribe detaches the observer. Calling it more than once, or on a zero
// Subscription, does nothing.
func (s Subscription) Unsubscribe() {
	if s.registry == nil {
		return
	}
	s.registry.remove(s.id)
}

// Active reports whether the subscription is still registered.
func (s Subscription) Active() bool {
	return s.registry != nil && s.registry.index(s.id) >= 0
}

// Subscribe registers o. Subscribing an observer that is already registered
// returns the existing subscription instead of adding a second entry.
func (r *Registry) Subscribe(o Observer) Subscription {
	if o == nil {
		return Subscription{}
	}
	for _, e := range r.entries {
		if same(e.observer, o) {
			return Subscription{registry: r, id: e.id}
		}
	}
	r.nextID++
	r.entries = append(r.entries, entry{id: r.nextID, observer: o})
	return Subscription{registry: r, id: r.nextID}
}

// Unsubscribe removes o if it is registered.
func (r *Registry) Unsubscribe(o Observer) {
	for _, e := range r.entries {
		if same(e.observer, o) {
			r.remove(e.id)
			return
		}
	}
}

// Len returns the number of registered observers.
func (r *Registry) Len() int { return len(r.entries) }

// Notify calls every registered observer in registration order. The set is
// fixed when Notify starts, except that an observer detached by an earlier
// observer in the same pass is skipped.
func (r *Registry) Notify() {
	if len(r.entries) == 0 {
		return
	}
	pending := make([]entry, len(r.entries))
	copy(pending, r.entries)
	for _, e := range pending {
		if r.index(e.id) < 0 {
			continue
		}
		e.observer.Notify()
	}
}

func (r *Registry) remove(id uint64) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
}

func (r *Registry) index(id uint64) int {
	for i, e := range r.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// same compares observers without panicking on uncomparable dynamic types.
func same(a, b Observer) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
