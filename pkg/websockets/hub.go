package websockets

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	writeWait = 10 * time.Second

	// sendBuffer is how many messages may queue for one connection before
	// it is considered too slow and dropped.
	sendBuffer = 32
)

// Conn is the part of a WebSocket connection the hub writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	Close() error
}

type localConn struct {
	userID string
	conn   Conn
	send   chan Message
	done   chan struct{}
	once   sync.Once
}

func (c *localConn) stop() {
	c.once.Do(func() { close(c.done) })
}

// Hub tracks the WebSocket connections served by this process and pushes
// messages to them. Each connection has its own queue and writer goroutine,
// so Publish never waits on the network. It backs the local development
// server.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*localConn
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*localConn)}
}

var _ Publisher = (*Hub)(nil)

// Register adds a live connection for the user and starts its writer.
func (h *Hub) Register(connectionID, userID string, conn Conn) {
	c := &localConn{
		userID: userID,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	old := h.conns[connectionID]
	h.conns[connectionID] = c
	h.mu.Unlock()

	if old != nil {
		old.stop()
	}
	go h.writePump(connectionID, c)
}

// Unregister forgets a connection and stops its writer. The connection
// itself stays open for its owner to close.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	c := h.conns[connectionID]
	delete(h.conns, connectionID)
	h.mu.Unlock()

	if c != nil {
		c.stop()
	}
}

// Connections returns the number of registered connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Publish queues the message for every local connection of the given users.
// A connection whose queue is full is dropped and closed.
func (h *Hub) Publish(ctx context.Context, userIDs []string, message Message) error {
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}

	h.mu.RLock()
	targets := make(map[string]*localConn)
	for id, c := range h.conns {
		if want[c.userID] {
			targets[id] = c
		}
	}
	h.mu.RUnlock()

	for id, c := range targets {
		select {
		case c.send <- message:
		case <-c.done:
		default:
			slog.Warn("dropping slow local connection", "connectionId", id, "userId", c.userID)
			h.drop(id, c)
		}
	}
	return nil
}

// drop unregisters c if it is still the connection held under id, then
// closes it so the owner's read loop ends.
func (h *Hub) drop(id string, c *localConn) {
	h.mu.Lock()
	if h.conns[id] == c {
		delete(h.conns, id)
	}
	h.mu.Unlock()

	c.stop()
	_ = c.conn.Close()
}

func (h *Hub) writePump(id string, c *localConn) {
	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				slog.Error("failed to write to local connection", "connectionId", id, "error", err)
				h.drop(id, c)
				return
			}
		}
	}
}
