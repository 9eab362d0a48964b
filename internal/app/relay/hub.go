/*
Package relay contains the core logic of the message relay.

This file defines the Hub, which owns the live set of connections and their send
queues. It is the only component permitted to write toward a connection's transport;
the router delivers every outbound event through it.
*/
package relay

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

// SendQueueSize is the capacity of each connection's outbound queue.
const SendQueueSize = 256

// Hub owns the mapping from connection identity to outbound send queue.
type Hub struct {
	// conns maps connection identity to its buffered outbound channel.
	conns map[ConnID]chan []byte

	// mu protects concurrent access to the conns map. Channel closes happen under
	// the write lock, so a Send holding the read lock can never hit a closed channel.
	mu sync.RWMutex

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[ConnID]chan []byte),
		logger: logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Register adds the connection's outbound channel to the live set.
// The hub takes ownership of closing the channel on Unregister.
func (h *Hub) Register(id ConnID, send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[id] = send
	h.logger.Info().
		Str("conn_id", string(id)).
		Int("total_conns", len(h.conns)).
		Msg("Connection registered.")
}

// Unregister removes the connection from the live set and closes its outbound
// channel, which terminates the connection's write pump. A second call for the
// same identity is a no-op.
func (h *Hub) Unregister(id ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	send, ok := h.conns[id]
	if !ok {
		return
	}

	delete(h.conns, id)
	close(send)

	h.logger.Info().
		Str("conn_id", string(id)).
		Int("total_conns", len(h.conns)).
		Msg("Connection unregistered.")
}

// Registered reports whether the identity currently has a live connection.
func (h *Hub) Registered(id ConnID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.conns[id]
	return ok
}

// Send queues the payload for the identified connection. It returns false, never
// an error, when the identity is not registered or its queue is full; callers
// treat false as a silent drop.
func (h *Hub) Send(id ConnID, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	send, ok := h.conns[id]
	if !ok {
		return false
	}

	select {
	case send <- payload:
		return true
	default:
		h.logger.Warn().
			Str("conn_id", string(id)).
			Int("queue_len", len(send)).
			Msg("Connection send queue full, dropping event.")
		return false
	}
}

// Broadcast queues the payload for every registered connection except the
// excluded one (pass an empty ConnID to exclude nobody). The registered set is
// snapshotted at call time; a connection that disconnects mid-broadcast simply
// misses its delivery.
func (h *Hub) Broadcast(payload []byte, excluded ConnID) {
	h.mu.RLock()
	targets := make([]ConnID, 0, len(h.conns))
	for id := range h.conns {
		if id != excluded {
			targets = append(targets, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range targets {
		h.Send(id, payload)
	}
}

// Shutdown unregisters every remaining connection, closing their outbound
// channels so the write pumps send close frames and exit.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, send := range h.conns {
		delete(h.conns, id)
		close(send)
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
