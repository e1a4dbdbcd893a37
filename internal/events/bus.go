package events

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Subscription identifies a registered handler for Unsubscribe.
type Subscription struct {
	id  uint64
	typ Type // empty for wildcard
}

type subscriber struct {
	id uint64
	h  Handler
}

// Bus delivers events synchronously: typed subscribers first, in
// registration order, then wildcard subscribers. It is safe for use from
// multiple goroutines.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	seq    uint64
	typed  map[Type][]subscriber
	all    []subscriber
	log    *slog.Logger
	now    func() time.Time
}

// NewBus returns an empty bus. A nil logger uses slog.Default.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		typed: make(map[Type][]subscriber),
		log:   log,
		now:   time.Now,
	}
}

// Subscribe registers h for events of type t.
func (b *Bus) Subscribe(t Type, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.typed[t] = append(b.typed[t], subscriber{id: b.nextID, h: h})
	return Subscription{id: b.nextID, typ: t}
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.all = append(b.all, subscriber{id: b.nextID, h: h})
	return Subscription{id: b.nextID}
}

// Unsubscribe removes a handler. It reports whether the handler was found.
func (b *Bus) Unsubscribe(s Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	match := func(sub subscriber) bool { return sub.id == s.id }
	if s.typ == "" {
		n := len(b.all)
		b.all = slices.DeleteFunc(b.all, match)
		return len(b.all) != n
	}
	subs := b.typed[s.typ]
	n := len(subs)
	b.typed[s.typ] = slices.DeleteFunc(subs, match)
	return len(b.typed[s.typ]) != n
}

// Publish stamps e with a sequence number and time and delivers it. A
// panicking handler is logged and does not stop delivery to the others.
func (b *Bus) Publish(e Event) Event {
	b.mu.Lock()
	b.seq++
	e.Seq = b.seq
	if e.Time.IsZero() {
		e.Time = b.now()
	}
	subs := make([]subscriber, 0, len(b.typed[e.Type])+len(b.all))
	subs = append(subs, b.typed[e.Type]...)
	subs = append(subs, b.all...)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
	return e
}

// Len returns the number of handlers registered for t, wildcards included.
func (b *Bus) Len(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.typed[t]) + len(b.all)
}

func (b *Bus) deliver(s subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				"event", string(e.Type), "panic", fmt.Sprint(r))
		}
	}()
	s.h(e)
}
