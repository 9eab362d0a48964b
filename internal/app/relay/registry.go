/*
Package relay contains the core logic of the message relay.

This file defines the Registry, which maps live connection identities to display
names and answers the "who is online" question.
*/
package relay

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

// Registry tracks the presence of every joined connection.
// A connection has at most one presence at a time; display names are not required
// to be unique across connections.
type Registry struct {
	// presences maps connection identity to display name.
	presences map[ConnID]string

	// mu protects concurrent access to the presences map.
	mu sync.RWMutex

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs and returns a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		presences: make(map[ConnID]string),
		logger:    logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Join records the presence of id under the given display name,
// overwriting any prior presence for that identity.
func (r *Registry) Join(id ConnID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.presences[id]; ok && previous != name {
		r.logger.Info().
			Str("conn_id", string(id)).
			Str("previous_name", previous).
			Str("name", name).
			Msg("Presence overwritten with new display name.")
	}

	r.presences[id] = name
}

// Leave removes the presence for id and returns the display name that was
// registered. A second call for the same identity is a no-op returning false.
func (r *Registry) Leave(id ConnID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.presences[id]
	if !ok {
		return "", false
	}

	delete(r.presences, id)
	return name, true
}

// NameOf returns the display name registered for id, if any.
func (r *Registry) NameOf(id ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.presences[id]
	return name, ok
}

// ListOnline returns a point-in-time copy of the presence table.
// The returned map is owned by the caller and unaffected by later Join/Leave calls.
func (r *Registry) ListOnline() map[ConnID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[ConnID]string, len(r.presences))
	for id, name := range r.presences {
		snapshot[id] = name
	}

	return snapshot
}
