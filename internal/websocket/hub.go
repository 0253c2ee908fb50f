package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active WebSocket connections and broadcasts operational
// events (vessel swaps, trip status changes) to connected clients
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Outbound messages to connected users
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Message represents a message to deliver. When UserID is empty the message
// goes to every client whose role matches Role; when Role is also empty it
// goes to everyone.
type Message struct {
	UserID string
	Role   string
	Data   interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (%s), total %d", client.UserID, client.UserRole, h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s (%s), remaining %d", client.UserID, client.UserRole, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ [WEBSOCKET] Failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			for _, client := range h.clients {
				if message.UserID != "" && client.UserID != message.UserID {
					continue
				}
				if message.UserID == "" && message.Role != "" && client.UserRole != message.Role {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Client's send buffer is full; drop the message rather
					// than block the hub
					log.Printf("⚠️  [WEBSOCKET] Send buffer full for %s, dropping message", client.UserID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToUser queues a message for one connected user
func (h *Hub) SendToUser(userID string, data interface{}) {
	h.broadcast <- &Message{UserID: userID, Data: data}
}

// BroadcastToRole queues a message for every connected user with the role
func (h *Hub) BroadcastToRole(role string, data interface{}) {
	h.broadcast <- &Message{Role: role, Data: data}
}

// BroadcastAll queues a message for every connected user
func (h *Hub) BroadcastAll(data interface{}) {
	h.broadcast <- &Message{Data: data}
}
