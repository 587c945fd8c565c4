// Package events fans dispatch outcomes out to live admin subscribers.
package events

import (
	"context"
	"sync"

	"jobfair/internal/logger"
	"jobfair/internal/services"
)

const DEFAULT_SUBSCRIBER_BUFFER = 16

type EventBus struct {
	mu          sync.Mutex
	subscribers map[int]chan services.DispatchOutcome
	next        int
	closed      bool
	log         logger.Logger
}

func New() *EventBus {
	return &EventBus{
		subscribers: make(map[int]chan services.DispatchOutcome),
		log:         logger.New("EventBus"),
	}
}

// Subscribe returns a channel of outcomes and a function that ends the
// subscription and closes the channel.
func (b *EventBus) Subscribe(buffer int) (<-chan services.DispatchOutcome, func()) {
	if buffer <= 0 {
		buffer = DEFAULT_SUBSCRIBER_BUFFER
	}
	ch := make(chan services.DispatchOutcome, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
}

// Record publishes outcome without blocking; slow subscribers miss events.
func (b *EventBus) Record(_ context.Context, outcome services.DispatchOutcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- outcome:
		default:
			b.log.Function("Record").Debug("dropping event for slow subscriber", "subscriber", id)
		}
	}
}

func (b *EventBus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
	return nil
}
