// Package web streams attitude reports to WebSocket clients.
package web

import (
	"sync"

	"imud/internal/wire"
)

// Broadcaster fans attitude reports out to any number of subscribers. It
// keeps the most recent value so a new subscriber gets an immediate sample
// instead of waiting for the next update.
type Broadcaster struct {
	mu       sync.RWMutex
	subs     map[int]chan wire.Attitude
	nextID   int
	last     wire.Attitude
	haveLast bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan wire.Attitude)}
}

// Subscribe registers a listener and returns its id plus the delivery
// channel. The channel is closed by Unsubscribe.
func (b *Broadcaster) Subscribe(buffer int) (int, <-chan wire.Attitude) {
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan wire.Attitude, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	last := b.last
	have := b.haveLast
	b.mu.Unlock()

	if have {
		select {
		case ch <- last:
		default:
		}
	}
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers to every subscriber without blocking; a listener that
// cannot keep up drops updates rather than stalling the producer.
func (b *Broadcaster) Publish(a wire.Attitude) {
	b.mu.RLock()
	subs := make([]chan wire.Attitude, 0, len(b.subs))
	for _, ch := range b.subs {
		subs = append(subs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- a:
		default:
		}
	}

	b.mu.Lock()
	b.last = a
	b.haveLast = true
	b.mu.Unlock()
}
