package form

import (
	"sync"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
)

// Registry maps session ids to their stores
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// Get returns the store for id and counts as activity for Sweep. When none
// exists a store pre-filled with seed() is created.
func (r *Registry) Get(id string, seed func() models.FormInput) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[id]; ok {
		s.keepAlive()
		return s
	}
	s := NewStore(seed())
	r.stores[id] = s
	return s
}

// Lookup returns the store for id without creating one
func (r *Registry) Lookup(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	return s, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep drops stores idle for longer than maxIdle. Stores with a pending
// generation are kept. It returns the number of dropped stores.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, s := range r.stores {
		if s.LastTouched().Before(cutoff) && !s.Snapshot().Loading() {
			delete(r.stores, id)
			dropped++
		}
	}
	return dropped
}
