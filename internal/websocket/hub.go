package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/models"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSeatsUpdated MessageType = "seats_updated"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Message represents a WebSocket message
type Message struct {
	Type         MessageType         `json:"type"`
	FlightNumber string              `json:"flightNumber"`
	Seats        []models.SeatUpdate `json:"seats,omitempty"`
	Timestamp    int64               `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	flight string
}

// Hub fans seat updates out to the clients watching each flight.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex

	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewHub creates a new Hub
func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.WithField("component", "websocket"),
	}
}

func flightKey(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// Run starts the hub's main loop. It returns when ctx is done, after
// disconnecting every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for flight, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, flight)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flight] == nil {
				h.clients[client.flight] = make(map[*Client]bool)
			}
			h.clients[client.flight][client] = true
			total := len(h.clients[client.flight])
			h.mu.Unlock()
			h.logger.WithFields(logrus.Fields{"flight": client.flight, "clients": total}).Debug("Client registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.WithError(err).Error("Failed to marshal message")
				continue
			}

			h.mu.RLock()
			var stale []*Client
			for client := range h.clients[message.FlightNumber] {
				select {
				case client.send <- data:
				default:
					stale = append(stale, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range stale {
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.flight]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.flight)
	}
	h.logger.WithFields(logrus.Fields{"flight": client.flight, "clients": len(clients)}).Debug("Client unregistered")
}

// BroadcastSeatUpdate queues a seat change for the flight's clients. It never
// blocks; updates are dropped when the queue is full.
func (h *Hub) BroadcastSeatUpdate(update models.SeatUpdate) {
	msg := &Message{
		Type:         MessageTypeSeatsUpdated,
		FlightNumber: flightKey(update.FlightNumber),
		Seats:        []models.SeatUpdate{update},
		Timestamp:    update.Timestamp.UnixMilli(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.WithField("flight", msg.FlightNumber).Warn("Broadcast queue full, dropping seat update")
	}
}

// ClientCount returns the number of clients watching a flight
func (h *Hub) ClientCount(flight string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightKey(flight)])
}

// HandleWebSocket handles GET /api/flights/{number}/ws
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	flight := flightKey(mux.Vars(r)["number"])
	if flight == "" {
		http.Error(w, "flight number is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).WithField("flight", flight).Warn("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		flight: flight,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump discards client messages and unregisters the client on close.
func (c *Client) readPump() {
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
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.WithError(err).WithField("flight", c.flight).Debug("WebSocket closed")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
