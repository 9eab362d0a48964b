/*
Package randx provides functions for generating unique identifiers.

It is primarily used to mint the opaque per-connection tokens handed out when a
WebSocket connection is accepted.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnectionID generates a standard UUID v4 string to serve as the opaque identity
// token for a live connection. Tokens are never reused while a connection is open.
func ConnectionID() string {
	return uuid.New().String()
}
