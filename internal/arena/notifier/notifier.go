// Package notifier fans out "runs changed" pings to live run list streams.
package notifier

import "sync"

// Notifier broadcasts update pings per contest. Listeners receive an empty
// struct when the runs of their contest changed and should re-query.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel pinged on every Broadcast for contest.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(contest string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	set, ok := n.listeners[contest]
	if !ok {
		set = make(map[chan struct{}]struct{})
		n.listeners[contest] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(contest string, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.listeners[contest]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(n.listeners, contest)
	}
	close(ch)
}

// Broadcast pings every listener of contest. A listener that already has a
// pending ping is skipped.
func (n *Notifier) Broadcast(contest string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners[contest] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners reports how many streams follow contest.
func (n *Notifier) Listeners(contest string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners[contest])
}
