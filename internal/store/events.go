package store

import (
	"sort"
	"sync"
	"time"
)

// EventType identifies a store change.
type EventType string

const (
	CategoryCreated    EventType = "category.created"
	CategoryUpdated    EventType = "category.updated"
	CategoryDeleted    EventType = "category.deleted"
	TransactionCreated EventType = "transaction.created"
	TransactionUpdated EventType = "transaction.updated"
	TransactionDeleted EventType = "transaction.deleted"
	RecurringCreated   EventType = "recurring.created"
	RecurringUpdated   EventType = "recurring.updated"
	RecurringDeleted   EventType = "recurring.deleted"
	StoreLoaded        EventType = "store.loaded"
	StoreReset         EventType = "store.reset"
	StoreReplaced      EventType = "store.replaced"
)

// Event describes one successful mutation. Data holds a copy of the affected
// entity (nil for whole-store events). Previous holds the entity as it was
// before an update and is nil otherwise.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Previous  any       `json:"previous,omitempty"`
}

// Listener receives events synchronously, after the store lock is released.
type Listener func(Event)

type listeners struct {
	mu     sync.RWMutex
	byID   map[uint64]Listener
	nextID uint64
}

func (l *listeners) add(fn Listener) func() {
	l.mu.Lock()
	if l.byID == nil {
		l.byID = make(map[uint64]Listener)
	}
	l.nextID++
	id := l.nextID
	l.byID[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.byID, id)
			l.mu.Unlock()
		})
	}
}

// notify calls listeners in subscription order.
func (l *listeners) notify(e Event) {
	l.mu.RLock()
	ids := make([]uint64, 0, len(l.byID))
	for id := range l.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.byID[id])
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
