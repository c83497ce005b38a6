// Package eventbus dispatches invocation events to in-process
// subscribers. Publishing without an active bus is a no-op, so the
// adapter can emit events unconditionally.
package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

type subscription struct {
	id int64
	fn func(context.Context, any)
}

// Bus routes events to subscribers keyed by the event's dynamic type.
type Bus struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[reflect.Type][]subscription
}

func New() *Bus {
	return &Bus{subs: make(map[reflect.Type][]subscription)}
}

func (b *Bus) add(t reflect.Type, fn func(context.Context, any)) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[t]
		for i, s := range list {
			if s.id == id {
				b.subs[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[t]) == 0 {
			delete(b.subs, t)
		}
	}
}

func (b *Bus) publish(ctx context.Context, e any) {
	b.mu.RLock()
	list := append([]subscription(nil), b.subs[reflect.TypeOf(e)]...)
	b.mu.RUnlock()
	for _, s := range list {
		s.fn(ctx, e)
	}
}

var active atomic.Pointer[Bus]

// Use installs b as the process-wide bus. Passing nil disables publishing.
func Use(b *Bus) { active.Store(b) }

// Subscribe registers fn for events of type E on the active bus. The
// returned cancel removes the subscription; it is a no-op when no bus is
// active at call time.
func Subscribe[E any](fn func(context.Context, E)) (cancel func()) {
	b := active.Load()
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*E)(nil)).Elem()
	return b.add(t, func(ctx context.Context, e any) { fn(ctx, e.(E)) })
}

// Publish sends e to subscribers on the active bus, if any.
func Publish[E any](ctx context.Context, e E) {
	if b := active.Load(); b != nil {
		b.publish(ctx, e)
	}
}
