package realtime

import (
	"sort"
	"sync"
)

// Registry maps a user id to its single live channel. It lives for the
// whole process and is closed on shutdown.
type Registry struct {
	mu       sync.RWMutex
	channels map[uint]Channel
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[uint]Channel)}
}

// Register binds ch to userID. A different channel previously bound to the
// same user is closed.
func (r *Registry) Register(userID uint, ch Channel) {
	r.mu.Lock()
	old, ok := r.channels[userID]
	r.channels[userID] = ch
	r.mu.Unlock()

	if ok && old != nil && old.ID() != ch.ID() {
		_ = old.Close()
	}
}

func (r *Registry) Lookup(userID uint) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[userID]
	return ch, ok
}

func (r *Registry) Unregister(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.channels, userID)
}

// Release removes the entry only while it still points at ch, so a closing
// stale socket never evicts a newer registration.
func (r *Registry) Release(userID uint, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.channels[userID]
	if !ok || cur.ID() != ch.ID() {
		return false
	}
	delete(r.channels, userID)
	return true
}

// Online returns the bound user ids in ascending order.
func (r *Registry) Online() []uint {
	r.mu.RLock()
	ids := make([]uint, 0, len(r.channels))
	for id := range r.channels {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels)
}

// Close closes every channel and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[uint]Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		_ = ch.Close()
	}
}
