/*
Package relay contains the core logic of the message relay: the connection registry,
group store, connection hub, and the router that computes fan-out targets for every
inbound event.
*/
package relay

// ConnID is the opaque identity token assigned to each live connection.
// It is unique while the connection is open and is the only key routing logic
// uses; nothing in this package depends on how the transport identifies sockets.
type ConnID string
