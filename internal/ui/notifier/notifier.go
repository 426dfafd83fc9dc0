// Package notifier provides a topic-based ping mechanism for SSE updates.
package notifier

import "sync"

// ReloadTopic is the topic dev-mode browsers listen on for asset changes.
const ReloadTopic = "reload"

// Notifier pings subscribed listeners when something they watch changed.
// Listeners receive an empty struct and should re-read the state they render.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]string),
	}
}

// Subscribe returns a channel that receives pings published on topic.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = topic
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Publish pings every listener of topic.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Publish(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, t := range n.listeners {
		if t == topic {
			ping(ch)
		}
	}
}

// Broadcast pings every listener regardless of topic.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		ping(ch)
	}
}

// Len returns the number of listeners of topic.
func (n *Notifier) Len(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := 0
	for _, t := range n.listeners {
		if t == topic {
			count++
		}
	}
	return count
}

func ping(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		// Channel full, the listener has a ping pending already
	}
}
