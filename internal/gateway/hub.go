package gateway

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Frame is the envelope pushed over the wire. Clients ignore types they
// do not recognize, so new frame types can ship without breaking them.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	FrameTypeNotification = "notification"
	FrameTypePing         = "ping"
)

// Client is one live push connection, bound to a single recipient for
// its whole lifetime. Frames queue in FIFO order; the transport handler
// drains Frames() until the channel closes.
type Client struct {
	UserID string

	mu     sync.Mutex
	send   chan Frame
	closed bool
}

func (c *Client) Frames() <-chan Frame {
	return c.send
}

// trySend queues a frame without ever blocking. It reports false when
// the client is gone or its buffer is full.
func (c *Client) trySend(frame Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// Hub fans frames out to every open connection of a recipient. The
// registry is the only gateway-side shared state.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	sendBuffer int
}

func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		sendBuffer: sendBuffer,
	}
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		send:   make(chan Frame, h.sendBuffer),
	}

	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
	total := len(h.clients[userID])
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Int("connections", total).Msg("push client registered")
	return client
}

// Unregister releases the binding synchronously and closes the send
// channel. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if clients, ok := h.clients[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	h.mu.Unlock()

	client.close()
}

// Publish delivers a frame to every open connection of the recipient.
// A connection whose buffer is full is dropped instead of waited on: a
// stalled reader must never hold up the producer path, and the client
// picks the event up on its next poll anyway.
func (h *Hub) Publish(userID string, frame Frame) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.trySend(frame) {
			log.Warn().Str("user_id", userID).Msg("push client too slow, disconnecting")
			h.Unregister(client)
		}
	}
}

// Connections reports the number of open connections for a recipient.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
