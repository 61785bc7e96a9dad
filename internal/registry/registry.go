// Package registry holds one session per configured endpoint and tracks
// which endpoint is active.
package registry

import (
	"fmt"
	"sync"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

type entry struct {
	session models.EndpointSession
	seq     uint64
}

// Registry maps endpoint keys to sessions. Reads return copies.
type Registry struct {
	entries   map[string]*entry
	endpoints []models.Endpoint
	active    string
	mu        sync.RWMutex
}

// New creates a registry with a default session per endpoint. The first
// endpoint starts active.
func New(endpoints []models.Endpoint) *Registry {
	r := &Registry{
		entries:   make(map[string]*entry, len(endpoints)),
		endpoints: make([]models.Endpoint, 0, len(endpoints)),
	}
	for _, ep := range endpoints {
		if _, dup := r.entries[ep.Key]; dup {
			continue
		}
		r.entries[ep.Key] = &entry{session: models.DefaultSession()}
		r.endpoints = append(r.endpoints, ep)
	}
	if len(r.endpoints) > 0 {
		r.active = r.endpoints[0].Key
	}
	return r
}

// Endpoints returns the endpoints in configuration order.
func (r *Registry) Endpoints() []models.Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Endpoint returns the endpoint registered under key.
func (r *Registry) Endpoint(key string) (models.Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ep := range r.endpoints {
		if ep.Key == key {
			return ep, true
		}
	}
	return models.Endpoint{}, false
}

// Get returns a copy of the session for key.
func (r *Registry) Get(key string) (models.EndpointSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return models.DefaultSession(), false
	}
	return e.session.Clone(), true
}

// Replace stores a session unconditionally.
func (r *Registry) Replace(key string, session models.EndpointSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return fmt.Errorf("unknown endpoint %q", key)
	}
	e.session = session.Clone()
	return nil
}

// Reset restores the default session for key.
func (r *Registry) Reset(key string) error {
	return r.Replace(key, models.DefaultSession())
}

// Begin starts a query against key and returns its sequence number. Any
// query begun earlier is superseded.
func (r *Registry) Begin(key string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return 0, fmt.Errorf("unknown endpoint %q", key)
	}
	e.seq++
	return e.seq, nil
}

// Commit stores the result of the query identified by seq. It returns false,
// leaving the session untouched, when a newer query has begun since.
func (r *Registry) Commit(key string, seq uint64, session models.EndpointSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok || e.seq != seq {
		return false
	}
	e.session = session.Clone()
	return true
}

// Active returns the active endpoint key.
func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// ActiveEndpoint returns the active endpoint.
func (r *Registry) ActiveEndpoint() (models.Endpoint, bool) {
	return r.Endpoint(r.Active())
}

// SetActive changes the active endpoint. It never touches session data.
func (r *Registry) SetActive(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("unknown endpoint %q", key)
	}
	r.active = key
	return nil
}
