package store

import "github.com/jask/shoplist/internal/model"

// Subscription delivers snapshots on C. C holds at most one pending
// snapshot; a newer one replaces it, so readers always see the latest state.
type Subscription struct {
	C <-chan model.Snapshot

	ch     chan model.Snapshot
	store  *Store
	closed bool
}

// Observe subscribes to the store. C already holds the current snapshot.
// On a closed store the returned subscription is closed.
func (s *Store) Observe() *Subscription {
	ch := make(chan model.Snapshot, 1)
	sub := &Subscription{C: ch, ch: ch, store: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.closed = true
		close(ch)
		return sub
	}
	ch <- s.snap
	s.subs[sub] = struct{}{}
	return sub
}

// Close unsubscribes and closes C. Calling it more than once is safe.
func (sub *Subscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	sub.closeLocked()
}

// offer replaces any unread snapshot with snap. Caller holds store.mu.
func (sub *Subscription) offer(snap model.Snapshot) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- snap
}

// closeLocked requires store.mu.
func (sub *Subscription) closeLocked() {
	if sub.closed {
		return
	}
	sub.closed = true
	delete(sub.store.subs, sub)
	close(sub.ch)
}
