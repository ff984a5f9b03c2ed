// Package events delivers trip transition events to subscribers outside the
// process: websocket clients connected to the API and a RabbitMQ exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/medtransport/internal/domain"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

// client is one websocket subscriber. A non-zero tripID restricts delivery
// to events for that trip.
type client struct {
	id     string
	tripID int64
	send   chan []byte
}

// Hub fans trip events out to connected websocket clients. Slow clients whose
// buffer is full miss events rather than block publishers.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewHub returns a Hub that accepts connections from any origin; CORS for the
// REST surface is enforced separately.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Publish implements service.EventPublisher. It never fails once the event
// is encoded.
func (h *Hub) Publish(_ context.Context, ev domain.TripEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events.Hub.Publish: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.tripID != 0 && c.tripID != ev.TripID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn("websocket client buffer full, event dropped", "client_id", c.id, "event_id", ev.ID.String())
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and streams events until the
// client disconnects. The optional tripId query parameter filters by trip.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tripID, err := tripFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), tripID: tripID, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.log.InfoContext(r.Context(), "websocket client connected", "client_id", c.id, "trip_id", tripID)

	go h.writePump(c, conn)
	h.readPump(c, conn)
}

// tripFilter binds the optional ?tripId= query parameter; 0 means every trip.
func tripFilter(r *http.Request) (int64, error) {
	var id *int64
	if err := runtime.BindQueryParameter("form", true, false, "tripId", r.URL.Query(), &id); err != nil {
		return 0, fmt.Errorf("invalid format for parameter tripId: %w", err)
	}
	if id == nil {
		return 0, nil
	}
	if *id < 1 {
		return 0, fmt.Errorf("tripId must be a positive integer, got %d", *id)
	}
	return *id, nil
}

// badRequest writes the {"error":{"code","message"}} body the REST handlers use.
func badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "bad_request", "message": message},
	})
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// readPump discards inbound messages; it exists to notice the disconnect.
func (h *Hub) readPump(c *client, conn *websocket.Conn) {
	defer func() {
		h.unregister(c)
		conn.Close()
		h.log.Info("websocket client disconnected", "client_id", c.id)
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client, conn *websocket.Conn) {
	defer conn.Close()
	for msg := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
}
