// Package notify carries change notifications between components: collections
// publish after every successful write, the session manager publishes on
// login, register and logout, and subscribers re-read whatever the event's
// key covers.
package notify

import "sync"

type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpSession Op = "session"
)

// Event identifies what changed: the storage key and the operation.
type Event struct {
	Key string
	Op  Op
}

const subscriberBuffer = 16

// Bus is a fan-out publisher. Publishing never blocks: a subscriber whose
// buffer is full misses the event and is expected to re-read on the next one.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel of events and a cancel function. Cancel must be
// called to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
