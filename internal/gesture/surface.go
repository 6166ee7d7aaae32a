// Package gesture implements drag tracking for canvas nodes.
//
// A Drag is a small per-node state machine (Idle, Dragging, Released) that
// turns raw pointer positions into absolute node positions. While dragging it
// holds a Subscription on the Surface, so pointer events are seen even after
// the pointer leaves the node's bounds. Releasing the pointer always detaches
// the subscription.
package gesture

import (
	"sort"

	"modcanvas/internal/domain"
)

// PointerID identifies one pointer stream (mouse, touch point, pen)
type PointerID string

// EventKind distinguishes pointer events delivered through the surface
type EventKind int

const (
	PointerMove EventKind = iota
	PointerUp
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer sample in canvas coordinates
type PointerEvent struct {
	Kind    EventKind
	Pointer PointerID
	At      domain.Point
}

// Handler receives pointer events for a subscription
type Handler func(ev PointerEvent) error

// Subscription is a live capture of one pointer stream
type Subscription struct {
	id      uint64
	pointer PointerID
	handler Handler
	surface *Surface
}

// Pointer returns the captured pointer
func (sub *Subscription) Pointer() PointerID {
	return sub.pointer
}

// Active reports whether the subscription is still attached
func (sub *Subscription) Active() bool {
	if sub.surface == nil {
		return false
	}
	_, ok := sub.surface.subs[sub.id]
	return ok
}

// Release detaches the subscription. Calling it twice is harmless.
func (sub *Subscription) Release() {
	if sub.surface == nil {
		return
	}
	delete(sub.surface.subs, sub.id)
	sub.surface = nil
}

// Surface fans pointer events out to active subscriptions. It is not safe
// for concurrent use.
type Surface struct {
	subs map[uint64]*Subscription
	next uint64
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{subs: make(map[uint64]*Subscription)}
}

// Subscribe captures a pointer stream until the subscription is released
func (s *Surface) Subscribe(pointer PointerID, h Handler) *Subscription {
	s.next++
	sub := &Subscription{id: s.next, pointer: pointer, handler: h, surface: s}
	s.subs[sub.id] = sub
	return sub
}

// Dispatch delivers ev to every subscription on its pointer and reports
// whether any subscription received it. A move stops at the first error. A
// pointer-up reaches every subscription, so each one gets to release, and
// the first error is returned afterwards.
func (s *Surface) Dispatch(ev PointerEvent) (bool, error) {
	// Handlers may release their own subscription mid-dispatch
	targets := make([]*Subscription, 0, 1)
	for _, sub := range s.subs {
		if sub.pointer == ev.Pointer {
			targets = append(targets, sub)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	var firstErr error
	for _, sub := range targets {
		err := sub.handler(ev)
		if err == nil {
			continue
		}
		if ev.Kind != PointerUp {
			return true, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return len(targets) > 0, firstErr
}

// Len returns the number of active subscriptions
func (s *Surface) Len() int {
	return len(s.subs)
}

// Captured reports whether any subscription holds the pointer
func (s *Surface) Captured(pointer PointerID) bool {
	for _, sub := range s.subs {
		if sub.pointer == pointer {
			return true
		}
	}
	return false
}
