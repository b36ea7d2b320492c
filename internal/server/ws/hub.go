// Package ws streams allocation events to presentation clients over
// WebSocket. A client subscribes to one session when it connects.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"stall-allocation/internal/notify"
	"stall-allocation/utils"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 1024

	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// presentation clients are served from other origins
		return true
	},
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type broadcastMsg struct {
	sessionID string
	data      []byte
}

// Hub fans notify events out to the WebSocket clients watching the event's
// session. It implements notify.Notifier.
type Hub struct {
	sessions   map[string]map[*client]bool
	broadcast  chan broadcastMsg
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.RWMutex
}

var _ notify.Notifier = (*Hub)(nil)

// NewHub creates an idle hub. Call Run to start delivering events.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan broadcastMsg, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, after
// closing every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.sessions {
				for c := range clients {
					close(c.send)
				}
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			if h.sessions[c.sessionID] == nil {
				h.sessions[c.sessionID] = make(map[*client]bool)
			}
			h.sessions[c.sessionID][c] = true
			h.mu.Unlock()
			utils.Info("ws: client subscribed", map[string]any{
				"session_id": c.sessionID,
				"watchers":   h.Watchers(c.sessionID),
			})

		case c := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.sessions[c.sessionID]; ok && clients[c] {
				delete(clients, c)
				close(c.send)
				if len(clients) == 0 {
					delete(h.sessions, c.sessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.sessions[msg.sessionID] {
				select {
				case c.send <- msg.data:
				default:
					utils.Warn("ws: dropping event for slow client", map[string]any{"session_id": msg.sessionID})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Notify queues ev for the clients watching its session.
func (h *Hub) Notify(ctx context.Context, ev notify.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ws: marshal event: %w", err)
	}

	select {
	case h.broadcast <- broadcastMsg{sessionID: ev.SessionID, data: data}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watchers returns the number of clients subscribed to a session.
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// ServeSession upgrades the request and subscribes the connection to
// sessionID's events.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("ws: upgrade failed", map[string]any{"session_id": sessionID, "error": err.Error()})
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only services control frames; clients do not send commands.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Warn("ws: unexpected close", map[string]any{"session_id": c.sessionID, "error": err.Error()})
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
