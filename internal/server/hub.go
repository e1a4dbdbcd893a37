package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Notifications queued for the hub before new ones are dropped.
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one connected WebSocket peer.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans engine notifications out to every connected WebSocket client.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	log        *slog.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run is the hub's event loop. It returns when ctx is done, closing every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.unregisterClient(c)
			}
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Publish queues a notification for every client. It never blocks: when
// the queue is full the notification is dropped. It is meant to be a bus
// handler.
func (h *Hub) Publish(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Warn("failed to marshal websocket event", "type", e.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("websocket broadcast queue full, dropping event", "type", e.Type, "seq", e.Seq)
	}
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
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

func (h *Hub) registerClient(c *client) {
	h.clients[c] = true
	metrics.WebsocketClients.Inc()
	h.log.Debug("websocket client registered", "clients", len(h.clients))
}

func (h *Hub) unregisterClient(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.WebsocketClients.Dec()
	h.log.Debug("websocket client unregistered", "clients", len(h.clients))
}

func (h *Hub) broadcastMessage(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow client.
			h.unregisterClient(c)
		}
	}
}

// readPump discards client messages and keeps the connection alive.
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends queued notifications, one JSON document per message.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
