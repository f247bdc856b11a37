package outputbuf

import (
	"fmt"
	"sync"
)

// Broadcaster fans a message out to every subscriber without ever blocking
// the publisher: each subscriber channel has capacity 1, and a stale
// pending message is dropped in favor of the new one. That is exactly the
// semantics a wake-up signal needs (coalescing), and the only use this
// package makes of it.
type Broadcaster[T any] struct {
	inbox chan T

	mu          sync.Mutex
	subscribers map[chan T]struct{}
	stopped     bool
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	b := &Broadcaster[T]{
		inbox:       make(chan T, 1),
		subscribers: make(map[chan T]struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster[T]) run() {
	for msg := range b.inbox {
		// Snapshot subscribers so the lock is not held across sends.
		b.mu.Lock()
		subs := make([]chan T, 0, len(b.subscribers))
		for s := range b.subscribers {
			subs = append(subs, s)
		}
		b.mu.Unlock()

		for _, s := range subs {
			select {
			case s <- msg:
			default:
				// Full: displace the pending message.
				select {
				case <-s:
				default:
				}
				s <- msg
			}
		}
	}

	b.mu.Lock()
	for s := range b.subscribers {
		close(s)
	}
	b.stopped = true
	b.mu.Unlock()
}

// Stop shuts the broadcaster down and closes every subscriber channel.
func (b *Broadcaster[T]) Stop() {
	close(b.inbox)
}

// Subscribe registers a new subscriber. It fails once the broadcaster has
// stopped; callers treat that as "the stream is already complete".
func (b *Broadcaster[T]) Subscribe() (chan T, error) {
	ch := make(chan T, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return nil, fmt.Errorf("subscribe: broadcaster is stopped")
	}
	b.subscribers[ch] = struct{}{}
	return ch, nil
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	stopped := b.stopped
	b.mu.Unlock()
	if !stopped {
		close(ch)
	}
}

// Publish hands a message to the broadcaster, coalescing with any message
// still pending in the inbox.
func (b *Broadcaster[T]) Publish(msg T) {
	select {
	case b.inbox <- msg:
	default:
		select {
		case <-b.inbox:
		default:
		}
		b.inbox <- msg
	}
}
