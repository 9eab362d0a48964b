/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, minting the connection's opaque identity,
and initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/manuav007/EchoFlow/internal/app/relay"
	"github.com/manuav007/EchoFlow/internal/pkg/errs"
	"github.com/manuav007/EchoFlow/internal/pkg/limiter"
	"github.com/manuav007/EchoFlow/internal/pkg/logx"
	"github.com/manuav007/EchoFlow/internal/pkg/randx"
	"github.com/manuav007/EchoFlow/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			rateLimitErr := errs.NewError(errs.ErrRateLimitExceeded)
			resp.RespondError(w, r, rateLimitErr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := relay.ConnID(randx.ConnectionID())

		logx.Info("WebSocket connection established", "conn_id", string(connID))

		client := relay.NewClient(connID, deps.Relay, deps.Hub, conn)
		client.Start()
	}
}
