package chat

import (
	"github.com/samber/lo"
)

// Collection is the immutable, ordered set of events from one transcript.
// Accessors return copies, so callers cannot change what others see.
type Collection struct {
	events []Event
	users  int
}

// NewCollection takes a snapshot of events in the given order.
func NewCollection(events []Event) *Collection {
	c := &Collection{events: lo.Map(events, func(e Event, _ int) Event { return cloneEvent(e) })}
	c.users = lo.CountBy(c.events, func(e Event) bool { return e.IsUser() })
	return c
}

// Len returns the number of events of any kind.
func (c *Collection) Len() int {
	return len(c.events)
}

// UserCount returns the number of participant messages.
func (c *Collection) UserCount() int {
	return c.users
}

// SystemCount returns the number of platform notices.
func (c *Collection) SystemCount() int {
	return len(c.events) - c.users
}

// Events returns a copy of every event in transcript order.
func (c *Collection) Events() []Event {
	return lo.Map(c.events, func(e Event, _ int) Event { return cloneEvent(e) })
}

// UserEvents returns copies of the participant messages in transcript order.
func (c *Collection) UserEvents() []Event {
	return c.filter(func(e *Event) bool { return e.IsUser() })
}

// SystemEvents returns copies of the platform notices in transcript order.
func (c *Collection) SystemEvents() []Event {
	return c.filter(func(e *Event) bool { return !e.IsUser() })
}

// EachUser calls fn for every participant message in transcript order
// without copying the entity slices. fn must not modify them.
func (c *Collection) EachUser(fn func(e Event)) {
	for _, e := range c.events {
		if e.IsUser() {
			fn(e)
		}
	}
}

func (c *Collection) filter(keep func(e *Event) bool) []Event {
	out := make([]Event, 0, len(c.events))
	for i := range c.events {
		if keep(&c.events[i]) {
			out = append(out, cloneEvent(c.events[i]))
		}
	}
	return out
}
