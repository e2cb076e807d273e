// Package notify provides change notification for configuration reloads.
//
// The notify package implements an observer pattern that lets components
// subscribe to text object configuration changes. Reloads carry the newly
// loaded configuration; failed loads carry the error so observers can keep
// the previous state.
package notify

import (
	"sync"

	"github.com/dshills/textobjects/internal/config"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeReload indicates the configuration was read again.
	ChangeReload ChangeType = iota

	// ChangeLoadFailed indicates the configuration file could not be read
	// or parsed.
	ChangeLoadFailed
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeReload:
		return "reload"
	case ChangeLoadFailed:
		return "load-failed"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Type is the type of change.
	Type ChangeType

	// Path is the configuration file involved.
	Path string

	// Config is the new configuration. Nil unless Type is ChangeReload.
	Config *config.Config

	// Err is the load error for ChangeLoadFailed.
	Err error

	// Source identifies where the change came from.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	observers map[uint64]Observer
	order     []uint64
	nextID    uint64

	closed bool
}

// New creates a new Notifier. Changes are delivered synchronously on the
// notifying goroutine.
func New() *Notifier {
	return &Notifier{
		observers: make(map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes. Observers are called
// in subscription order.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = observer
	n.order = append(n.order, id)

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	n.deliverChange(change)
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(path string, cfg *config.Config, source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Path:   path,
		Config: cfg,
		Source: source,
	})
}

// NotifyLoadFailed is a convenience method for failed loads.
func (n *Notifier) NotifyLoadFailed(path string, err error, source string) {
	n.Notify(Change{
		Type:   ChangeLoadFailed,
		Path:   path,
		Err:    err,
		Source: source,
	})
}

// SubscriberCount returns the number of active subscriptions.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

// Close shuts down the notifier. Later notifications are dropped. It is
// safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.observers[id]; !ok {
		return
	}
	delete(n.observers, id)
	for i, oid := range n.order {
		if oid == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// deliverChange sends a change to all observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.order))
	for _, id := range n.order {
		observers = append(observers, n.observers[id])
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}
