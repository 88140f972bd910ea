package events

import (
	"context"
	"sync"
)

// MemoryBus delivers events within a single process.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[int]*memorySub
	nextID int
	closed bool
}

type memorySub struct {
	ch     chan Event
	filter Filter
	once   sync.Once
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]*memorySub)}
}

// Publish hands e to every current subscriber whose filter accepts it.
func (b *MemoryBus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if s.filter != nil && !s.filter(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(filter Filter) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	id := b.nextID
	b.nextID++
	s := &memorySub{ch: make(chan Event, subscriberBuffer), filter: filter}
	b.subs[id] = s

	return &Subscription{
		C: s.ch,
		close: func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			s.once.Do(func() { close(s.ch) })
		},
	}, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		s.once.Do(func() { close(s.ch) })
	}
	return nil
}
