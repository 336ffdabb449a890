package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/infrastructure/realtime"
	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/transport/http/middleware"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxInboundWS = 512
)

type connRegistry interface {
	Register(userID string, conn realtime.Conn) string
	Unregister(userID, connID string)
}

// WSHandler upgrades authenticated requests into notification streams.
type WSHandler struct {
	hub      connRegistry
	upgrader websocket.Upgrader
}

func NewWSHandler(hub connRegistry, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Notifications holds the connection open until the client goes away. The
// stream is push-only; inbound frames are read and discarded.
func (h *WSHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn(ctx, "websocket upgrade failed", zap.Error(err))
		return
	}

	connID := h.hub.Register(claims.UserID, conn)
	defer h.hub.Unregister(claims.UserID, connID)
	logger.Info(ctx, "websocket connected", zap.String("user_id", claims.UserID), zap.String("conn_id", connID))

	conn.SetReadLimit(maxInboundWS)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(ctx, "websocket closed", zap.String("conn_id", connID), zap.Error(err))
			}
			return
		}
	}
}

// keepAlive pings until done closes. WriteControl may run concurrently with
// the hub's writes.
func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(realtime.DefaultWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
