// Package events carries one-directional notifications from the shell to the
// UI layer. Delivery is best effort: a subscriber that is not keeping up
// misses events instead of stalling the emitter.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// StartDictation is emitted when the global hotkey fires.
const StartDictation = "start-dictation"

// Event is a named notification without payload.
type Event struct {
	Name string `json:"event"`
}

const subscriberBuffer = 16

// Bus fans events out to subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan Event
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uuid.UUID]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel function removes it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Emit delivers name to every subscriber at most once and reports how many
// received it. It never blocks.
func (b *Bus) Emit(name string) int {
	ev := Event{Name: name}

	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of active subscribers.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
