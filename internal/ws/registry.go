package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user identity to at most one live client. It is the only
// shared mutable state in the push path; a mutex serializes register,
// unregister and lookup so near-simultaneous connects for the same user
// resolve to a single winner.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[uuid.UUID]*Client)}
}

// Register stores the client, replacing any prior handle for the user.
// The displaced handle is abandoned, not closed: its own pumps shut it
// down when the connection errors out.
func (r *Registry) Register(userID uuid.UUID, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = c
}

// Unregister removes the mapping only if the stored handle is the one
// being unregistered, and reports whether it did. A stale connection
// closing late must not evict a newer one registered in the interim,
// and its teardown must not touch shared state owned by the newer one.
func (r *Registry) Unregister(userID uuid.UUID, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.clients[userID]; ok && current == c {
		delete(r.clients, userID)
		return true
	}
	return false
}

// Lookup returns the live client for the user, if any.
func (r *Registry) Lookup(userID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// Len returns the number of connected users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
