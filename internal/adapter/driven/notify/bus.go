// Package notify provides an in-process implementation of the change
// notification channel. It is the default notifier for single-instance
// deployments and the fake used by tests.
package notify

import (
	"context"
	"sync"

	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChangeNotifier = (*Bus)(nil)

// subscriberBuffer bounds each subscriber channel. A consumer that falls this
// far behind loses events; every event just triggers a full re-fetch, so a
// dropped event is recovered by the next one.
const subscriberBuffer = 16

// Bus is a mutex-guarded fan-out of change events to table subscribers.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan model.Change // table -> id -> channel
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan model.Change)}
}

// Publish delivers ch to every current subscriber of ch.Table without
// blocking. Slow subscribers are skipped rather than stalling the writer.
func (b *Bus) Publish(_ context.Context, ch model.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[ch.Table] {
		select {
		case sub <- ch:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber for the given table. The returned
// unsubscribe function is idempotent and closes the channel.
func (b *Bus) Subscribe(table string) (<-chan model.Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[table] == nil {
		b.subs[table] = make(map[int]chan model.Change)
	}

	id := b.next
	b.next++

	ch := make(chan model.Change, subscriberBuffer)
	b.subs[table][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[table], id)
			close(ch)
		})
	}

	return ch, unsubscribe
}
