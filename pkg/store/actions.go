package store

import (
	"errors"
	"sync"
)

// ErrActionNotFound reports removal of a message mapping that does not
// exist.
var ErrActionNotFound = errors.New("no action mapped to message")

// ActionRegistry maps host message identifiers to shell action strings.
// Lookups come from the message-dispatch callback on every host message,
// concurrently with protocol writes.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[uint32]string
}

// NewActionRegistry returns an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[uint32]string)}
}

// Set creates or overwrites the mapping for msg.
func (r *ActionRegistry) Set(msg uint32, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[msg] = action
}

// Unset removes the mapping for msg, reporting ErrActionNotFound if none
// exists.
func (r *ActionRegistry) Unset(msg uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[msg]; !ok {
		return ErrActionNotFound
	}
	delete(r.actions, msg)
	return nil
}

// Lookup returns the action mapped to msg, if any.
func (r *ActionRegistry) Lookup(msg uint32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.actions[msg]
	return action, ok
}

// Len returns the number of mappings.
func (r *ActionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
