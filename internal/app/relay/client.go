/*
Package relay contains the core logic of the message relay.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle and its message communication loops
(ReadPump and WritePump). Per-connection inbound events are processed in arrival
order; there is no cross-connection ordering guarantee.
*/
package relay

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/manuav007/EchoFlow/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// Sized to admit inline base64 file payloads.
	maxMessageSize = 8 << 20
)

// Client represents one active WebSocket connection identified by an opaque ConnID.
type Client struct {
	// id is the opaque identity token assigned at connect time.
	id ConnID

	// router dispatches every inbound event this connection produces.
	router *Router

	// hub owns the live connection set; the client registers its send queue there.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// send is the buffered outbound queue drained by WritePump.
	// It is closed by the hub on unregister.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded WebSocket connection.
func NewClient(id ConnID, router *Router, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:     id,
		router: router,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, SendQueueSize),
		logger: logx.Logger().With().Str("conn_id", string(id)).Logger(),
	}
}

// ID returns the connection's opaque identity token.
func (c *Client) ID() ConnID {
	return c.id
}

// Start registers the connection with the hub, launches the write pump, and runs
// the read pump on the calling goroutine until the connection closes.
func (c *Client) Start() {
	c.hub.Register(c.id, c.send)

	go c.WritePump()

	c.ReadPump()
}

// ReadPump handles reading events from the WebSocket connection.
// It handles heartbeats (Pong), hands every raw event to the router, and performs
// disconnect cleanup when the connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.router.HandleRaw(c.id, raw)
	}
}

// cleanupOnDisconnect runs the disconnect event through the router (hub
// unregister, presence removal, group purge, departure broadcasts) and closes the
// underlying connection. It completes even when the transport close was abrupt.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	c.router.HandleDisconnect(c.id)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error during cleanup")
	}
}

// WritePump drains the send queue into the WebSocket connection and keeps the
// heartbeat alive. It exits when the hub closes the send queue or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !c.writeQueuedEvent(payload, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedEvent writes one queued event to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedEvent(payload []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
