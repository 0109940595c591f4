package ws

import (
	"log"
	"sync"
)

// Hub tracks connected clients and their room subscriptions and fans
// outbound frames into per-client send buffers. It implements
// room.Publisher. Delivery never blocks: a client whose buffer is full
// is dropped so one slow reader cannot stall a room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if c.room != "" {
		h.dropSubscriptionLocked(c.room, c.id)
		c.room = ""
	}
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
}

// Subscribe adds the connection to a room's delivery set. A connection
// subscribes to at most one room; resubscribing moves it.
func (h *Hub) Subscribe(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if c.room != "" && c.room != roomID {
		h.dropSubscriptionLocked(c.room, connID)
	}
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[string]*Client)
		h.rooms[roomID] = subs
	}
	subs[connID] = c
	c.room = roomID
}

func (h *Hub) Unsubscribe(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropSubscriptionLocked(roomID, connID)
	if c, ok := h.clients[connID]; ok && c.room == roomID {
		c.room = ""
	}
}

func (h *Hub) dropSubscriptionLocked(roomID, connID string) {
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Send delivers a frame to a single connection.
func (h *Hub) Send(connID string, frame []byte) {
	if frame == nil {
		return
	}
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c != nil {
		h.deliver(c, frame)
	}
}

// Publish delivers a frame to every subscriber of the room except
// excludeConnID. Callers publish in the order they applied state, and
// send buffers are drained in order, so every subscriber observes the
// room's events in one total order.
func (h *Hub) Publish(roomID string, frame []byte, excludeConnID string) {
	if frame == nil {
		return
	}
	h.mu.RLock()
	subs := h.rooms[roomID]
	targets := make([]*Client, 0, len(subs))
	for id, c := range subs {
		if id == excludeConnID {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, frame)
	}
}

// deliver enqueues without blocking. The send channel stays open for
// the client's whole lifetime, so a fanout that captured the client
// just before it unregistered lands in an abandoned buffer instead of
// panicking the publisher.
func (h *Hub) deliver(c *Client, frame []byte) {
	select {
	case <-c.done:
	case c.send <- frame:
	default:
		log.Printf("Dropping client %s (send buffer full)", c.id)
		h.unregister(c)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
