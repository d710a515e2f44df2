package store

import (
	"sync"

	"github.com/google/uuid"
)

// Topic names a logical result set subscribers can watch.
type Topic string

const (
	TopicEntries   Topic = "entries"
	TopicAddendums Topic = "addendums"
	TopicThreads   Topic = "threads"
	TopicHands     Topic = "hands"
	TopicShares    Topic = "shares"
)

// Notifier is the in-process subscription hub. Stores publish to it
// after every committed write; subscribers re-query on each signal.
//
// Signals are coalescing: each subscription buffers at most one pending
// signal, so a burst of writes collapses into a single wake-up. A
// subscriber that re-queries after the signal always sees a state no
// older than the latest committed write at emission time.
//
// Thread-safety: all methods are safe for concurrent use.
type Notifier struct {
	mu     sync.Mutex
	closed bool
	subs   map[Topic]map[string]chan struct{}
}

func newNotifier() *Notifier {
	return &Notifier{subs: make(map[Topic]map[string]chan struct{})}
}

// Subscribe registers a listener for a topic. The returned channel
// carries coalescing signals; the cancel func frees the subscription
// and closes the channel. Cancelling has no effect on stored data.
func (n *Notifier) Subscribe(topic Topic) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan struct{}, 1)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	token := uuid.NewString()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[string]chan struct{})
	}
	n.subs[topic][token] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[topic][token]; ok {
			delete(n.subs[topic], token)
			close(sub)
		}
	}
	return ch, cancel
}

// publish signals every subscription on the given topics.
// Non-blocking: a subscriber with a pending signal is not signalled
// again, and a slow subscriber never blocks a write.
func (n *Notifier) publish(topics ...Topic) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	for _, topic := range topics {
		for _, ch := range n.subs[topic] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// close drops all subscriptions. Called by Store.Close.
func (n *Notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for _, subs := range n.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	n.subs = make(map[Topic]map[string]chan struct{})
}
