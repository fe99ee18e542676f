package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event is one change-feed notification. Clients use it to invalidate
// cached pages for the named collection.
type Event struct {
	Collection string `json:"collection"`
	EntityID   string `json:"entityId"`
	Action     string `json:"action"`
}

// Hub maintains the set of active clients and fans change events out
// to all of them.
type Hub struct {
	// Registered clients. Maps user ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Outbound change events, serialized, fanned out to every client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// PublishChange pushes one change event into the broadcast queue. A
// full queue drops the event; the feed is advisory, clients refetch.
func (h *Hub) PublishChange(collection, entityID, action string) {
	payload, err := json.Marshal(Event{Collection: collection, EntityID: entityID, Action: action})
	if err != nil {
		log.Printf("WebSocket Hub: failed to encode event: %v", err)
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		log.Printf("WebSocket Hub: broadcast queue full, dropping %s/%s event", collection, action)
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; !ok {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			log.Printf("WebSocket Client registered for User %s. Total connections for user: %d", client.UserID, len(h.Clients[client.UserID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					close(client.Send)
					if len(userClients) == 0 {
						delete(h.Clients, client.UserID)
						log.Printf("WebSocket Client unregistered. User %s has no more connections.", client.UserID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for _, userClients := range h.Clients {
				for client := range userClients {
					select {
					case client.Send <- message:
					default:
						// Slow consumer, skip this event for it.
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}
