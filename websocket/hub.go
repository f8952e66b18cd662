package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected portal clients
const (
	EventNotification     = "notification"
	EventFeePlanUpdate    = "fee_plan_update"
	EventCommissionUpdate = "commission_update"
	EventDataRoomUpdate   = "data_room_update"
)

// Event is a message sent over WebSocket to a portal user.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userId,omitempty"`
}

// Client is one connected portal user.
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of connected clients and routes events to them.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A new connection for the same user replaces the old one
			if old, ok := h.clients[client.UserID]; ok {
				old.Conn.Close()
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers an event to one connected user. Users without an open
// connection are not an error for callers; they still get the in-app
// notification document.
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}
	return client.Conn.WriteJSON(event)
}

// SendToUsers fans an event out to a set of users, skipping the ones not
// connected
func (h *Hub) SendToUsers(userIDs []primitive.ObjectID, event Event) {
	for _, userID := range userIDs {
		_ = h.SendToUser(userID, event)
	}
}
