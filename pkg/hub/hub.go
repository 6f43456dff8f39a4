// Package hub provides a thread-safe websocket broadcast hub using the
// idiomatic Go channel-based fan-out pattern. Outbound protocol messages
// fan out to every dashboard client; inbound text lines (operator commands)
// are handed to a single callback.
package hub

import (
	"sync"

	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/protocol"
)

// LineFunc receives one inbound text line from a client.
type LineFunc func(clientID, line string)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Name for logging
	name string

	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Inbound command sink (nil for broadcast-only hubs)
	onLine LineFunc

	// Mutex for client map (read-only access from outside)
	mu sync.RWMutex

	stop chan struct{}
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

// OnLine sets the sink for inbound client lines. Set before Run.
func (h *Hub) OnLine(fn LineFunc) {
	h.onLine = fn
}

// Run starts the hub's main loop. Blocks until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client connected", "hub", h.name, "client", client.ID, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client disconnected", "hub", h.name, "client", client.ID, "remaining", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
					// Queued successfully
				default:
					// Client's buffer is full - they're too slow
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub dropped slow client", "hub", h.name, "client", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop halts the hub loop and disconnects all clients.
func (h *Hub) Stop() {
	close(h.stop)
}

// Broadcast queues raw bytes for every connected client.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		// Broadcast channel full - drop message
		log.Warn("hub broadcast channel full, dropping message", "hub", h.name)
	}
}

// BroadcastMessage encodes and broadcasts a protocol message.
func (h *Hub) BroadcastMessage(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
