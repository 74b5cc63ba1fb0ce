// Package ws pushes live record-change notifications to dashboard clients.
// Each client follows at most one hospital partition at a time; switching
// hospitals always cancels the previous subscription before the new one is
// established, so a superseded dashboard never receives stale pushes.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Event is a change notification for one hospital partition.
type Event struct {
	Type       string          `json:"type"`
	HospitalID string          `json:"hospitalId"`
	Count      int             `json:"count,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Event types published by the record writers.
const (
	EventRecordsUploaded  = "records.uploaded"
	EventPredictionStored = "prediction.stored"
	EventTaskChanged      = "task.changed"
)

// ClientMessage is an inbound subscribe/unsubscribe request.
type ClientMessage struct {
	Action     string `json:"action"`
	HospitalID string `json:"hospitalId"`
}

// Publisher is the interface record writers use to announce changes.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a single connected dashboard.
type Client struct {
	ID         string
	HospitalID string // empty until the client subscribes
	Send       chan []byte
	conn       Conn
}

// Hub tracks connected clients and their hospital subscription. All
// operations are safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	byPartition map[string]map[*Client]struct{}
	all         map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byPartition: make(map[string]map[*Client]struct{}),
		all:         make(map[*Client]struct{}),
	}
}

// Register adds a newly connected client with no subscription yet.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[client] = struct{}{}
}

// Unregister removes a client, drops its subscription, and closes its Send
// channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	h.dropSubscription(client)
	delete(h.all, client)
	close(client.Send)
}

// Subscribe points a client at a hospital partition. Any prior subscription
// is cancelled first; a client observes events from exactly one partition.
func (h *Hub) Subscribe(client *Client, hospitalID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropSubscription(client)

	if h.byPartition[hospitalID] == nil {
		h.byPartition[hospitalID] = make(map[*Client]struct{})
	}
	h.byPartition[hospitalID][client] = struct{}{}
	client.HospitalID = hospitalID
}

// Unsubscribe cancels the client's current subscription, if any.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropSubscription(client)
}

// dropSubscription removes the client from its current partition.
// Caller must hold h.mu.
func (h *Hub) dropSubscription(client *Client) {
	if client.HospitalID == "" {
		return
	}
	if subscribers, ok := h.byPartition[client.HospitalID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.byPartition, client.HospitalID)
		}
	}
	client.HospitalID = ""
}

// ProcessMessage handles an inbound client message.
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		if msg.HospitalID != "" {
			h.Subscribe(client, msg.HospitalID)
		}
	case "unsubscribe":
		h.Unsubscribe(client)
	}
}

// Broadcast sends an event to every client following the event's hospital.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.byPartition[event.HospitalID] {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.Broadcast(event)
	return nil
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// PartitionCount returns the number of clients following a hospital.
func (h *Hub) PartitionCount(hospitalID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byPartition[hospitalID])
}

// ---------------------------------------------------------------------------
// Handler — Echo HTTP handler for WebSocket connections
// ---------------------------------------------------------------------------

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler upgrades HTTP connections and routes client messages to the hub.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (wh *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", wh.HandleConnect)
}

// HandleConnect upgrades the connection, registers the client, and starts
// the read/write pumps. An optional ?hospital_id query parameter subscribes
// immediately.
func (wh *Handler) HandleConnect(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
		conn: &gorillaConnAdapter{conn},
	}

	wh.hub.Register(client)
	if hid := c.QueryParam("hospital_id"); hid != "" {
		wh.hub.Subscribe(client, hid)
	}

	go wh.writePump(client, conn)
	go wh.readPump(client, conn)

	return nil
}

func (wh *Handler) readPump(client *Client, conn *gorillaws.Conn) {
	defer func() {
		wh.hub.Unregister(client)
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Ignore malformed messages.
		}

		wh.hub.ProcessMessage(client, msg)
	}
}

func (wh *Handler) writePump(client *Client, conn *gorillaws.Conn) {
	defer conn.Close()

	for message := range client.Send {
		if err := conn.WriteMessage(gorillaws.TextMessage, message); err != nil {
			break
		}
	}
}

// gorillaConnAdapter wraps a gorilla/websocket.Conn to satisfy Conn.
type gorillaConnAdapter struct {
	conn *gorillaws.Conn
}

func (a *gorillaConnAdapter) ReadMessage() (int, []byte, error) {
	return a.conn.ReadMessage()
}

func (a *gorillaConnAdapter) WriteMessage(messageType int, data []byte) error {
	return a.conn.WriteMessage(messageType, data)
}

func (a *gorillaConnAdapter) Close() error {
	return a.conn.Close()
}
