package scoutqa

import (
	"sort"
	"sync"

	"github.com/scoutqa/scoutqa/internal/model"
)

// progressBus fans out one Scan's progress events to every subscriber
// (spec §4.7), grounded on the teacher's FFI handle map
// (pkg/ffi/handles.go's modelHandles: an RWMutex-guarded map with an
// incrementing id key) adapted from "opaque handle → Inferencer" to
// "subscriber id → callback".
type progressBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(model.ProgressEvent)
}

func newProgressBus() *progressBus {
	return &progressBus{subs: make(map[int]func(model.ProgressEvent))}
}

// subscribe registers onEvent and returns an idempotent unsubscribe
// function (spec §4.7's "subscribeProgress ... returns a detach
// function that is idempotent").
func (b *progressBus) subscribe(onEvent func(model.ProgressEvent)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = onEvent
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// publish invokes every current subscriber synchronously, in
// subscription order, outside the lock, so a slow subscriber can't
// block a concurrent subscribe/unsubscribe, while a snapshot taken
// after an unsubscribe call returns never includes that subscriber
// (spec §4.7's "a remove during a push must not observe further
// events").
func (b *progressBus) publish(ev model.ProgressEvent) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	callbacks := make([]func(model.ProgressEvent), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, b.subs[id])
	}
	b.mu.RUnlock()

	for _, cb := range callbacks {
		cb(ev)
	}
}
