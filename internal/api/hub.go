package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/talgya/windward/internal/sim"
)

// Frame is the JSON envelope of every message sent over the socket.
type Frame struct {
	// Type discriminates the payload: "snapshot", "events".
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one connected spectator or player tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	// send buffers outbound frames so one slow socket cannot stall the hub.
	send chan []byte
}

// Hub maintains the set of connected clients, fans broadcast frames out to
// them and funnels their input frames toward the driver.
type Hub struct {
	clients map[*Client]bool

	// Broadcast carries pre-marshaled frames to every connected client.
	Broadcast chan []byte

	// Inputs carries parsed player input toward the driver. The channel is
	// buffered; when the driver lags, stale inputs are dropped rather than
	// blocking the read pump.
	Inputs chan sim.Input

	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Inputs:     make(chan sim.Input, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop. It blocks.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			slog.Info("websocket client connected", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Info("websocket client disconnected", "clients", len(h.clients))
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Full buffer means the client hung; drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket connection and attaches it
// to the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump parses incoming input frames and forwards them to the driver.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "error", err)
			}
			break
		}

		var input sim.Input
		if err := json.Unmarshal(message, &input); err != nil {
			slog.Warn("dropping malformed input frame", "error", err)
			continue
		}

		select {
		case c.hub.Inputs <- input:
		default:
			// Driver is behind; drop the frame.
		}
	}
}

// writePump drains the send buffer onto the socket. Exits when the hub
// closes the channel.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
}
