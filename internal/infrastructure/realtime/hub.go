// Package realtime keeps the registry of live notification connections.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/metrics"
)

const DefaultWriteTimeout = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn Conn
	// gorilla connections allow one concurrent writer.
	mu sync.Mutex
}

func (c *client) write(v any, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub maps user ids to their open connections. A user may hold any number of
// connections, one per device or tab.
type Hub struct {
	mu           sync.Mutex
	conns        map[string]map[string]*client
	writeTimeout time.Duration
}

func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Hub{conns: make(map[string]map[string]*client), writeTimeout: writeTimeout}
}

// Register adds conn for userID and returns its connection id.
func (h *Hub) Register(userID string, conn Conn) string {
	connID := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[string]*client)
	}
	h.conns[userID][connID] = &client{conn: conn}
	metrics.LiveConnections.Inc()
	return connID
}

// Unregister removes and closes the connection. Unknown ids are ignored.
func (h *Hub) Unregister(userID, connID string) {
	h.mu.Lock()
	c, ok := h.conns[userID][connID]
	if ok {
		delete(h.conns[userID], connID)
		if len(h.conns[userID]) == 0 {
			delete(h.conns, userID)
		}
		metrics.LiveConnections.Dec()
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

// BroadcastToUser writes payload to every connection of userID and returns
// how many writes succeeded. Connections that fail are dropped.
func (h *Hub) BroadcastToUser(ctx context.Context, userID string, payload any) (int, error) {
	h.mu.Lock()
	targets := make(map[string]*client, len(h.conns[userID]))
	for id, c := range h.conns[userID] {
		targets[id] = c
	}
	h.mu.Unlock()

	delivered := 0
	var errs []error
	for connID, c := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.write(payload, h.writeTimeout); err != nil {
			metrics.PushDeliveries.WithLabelValues("failed").Inc()
			logger.Warn(ctx, "dropping connection after failed push",
				zap.String("user_id", userID), zap.String("conn_id", connID), zap.Error(err))
			h.Unregister(userID, connID)
			errs = append(errs, fmt.Errorf("conn %s: %w", connID, err))
			continue
		}
		metrics.PushDeliveries.WithLabelValues("delivered").Inc()
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Count is the number of live connections of userID.
func (h *Hub) Count(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID])
}

// CloseAll closes every connection. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.conns
	h.conns = make(map[string]map[string]*client)
	h.mu.Unlock()

	for _, byID := range all {
		for _, c := range byID {
			metrics.LiveConnections.Dec()
			_ = c.conn.Close()
		}
	}
}
