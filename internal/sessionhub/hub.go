package sessionhub

import (
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/Mimesse/fit-coach-hub/internal/models"
)

// Hub fans auth-state changes out to every connected device of a user. A
// single goroutine owns the client registry, so registration, teardown and
// delivery never race. Events carry a complete session snapshot; subscribers
// replace their state with it rather than merging fields.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan *Event
	stop       chan struct{}
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type Event struct {
	Type      string                 `json:"type"`
	Session   models.SessionSnapshot `json:"session"`
	Timestamp string                 `json:"timestamp"`
}

func NewEvent(eventType string, session models.SessionSnapshot) *Event {
	return &Event{
		Type:      eventType,
		Session:   session,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *Event, 64),
		stop:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.events:
			h.deliver(event)
		case <-h.stop:
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return
		}
	}
}

// Stop shuts the hub down and closes every client send channel. Run returns
// after Stop.
func (h *Hub) Stop() {
	close(h.stop)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues an event for the user named in its snapshot. Delivery is
// best-effort: a device that stopped draining its channel is dropped.
func (h *Hub) Broadcast(event *Event) {
	select {
	case h.events <- event:
	default:
		log.Printf("session hub: event queue full, dropping %s for user %s", event.Type, event.Session.UserID)
	}
}

func (h *Hub) deliver(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("session hub encode event: %v", err)
		return
	}

	set, ok := h.clients[event.Session.UserID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.Session.UserID)
	}
}

// ReadPump drains the connection until the peer goes away. Clients only
// listen on this stream; anything they send is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Receive exposes the client's delivery channel. Tests subscribe through it
// without a live websocket connection.
func (c *Client) Receive() <-chan []byte {
	return c.send
}

func (c *Client) UserID() string {
	return c.userID
}
