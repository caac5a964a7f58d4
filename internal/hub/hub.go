// Package hub fans catalog change events out to server-sent event streams.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Topics a client can subscribe to.
const (
	TopicGames   = "games"
	TopicGenres  = "genres"
	TopicEngines = "engines"
)

// AllTopics lists every topic, in the order they are documented.
var AllTopics = []string{TopicGames, TopicGenres, TopicEngines}

// Event represents a catalog change sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is the channel an SSE handler reads encoded events from.
type Client chan []byte

// Hub tracks which clients listen to which topics.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[Client]bool),
		logger: logger,
	}
}

// NewClient returns a buffered client channel.
func NewClient() Client {
	return make(Client, 16)
}

// Subscribe adds a client to each of the given topics.
func (h *Hub) Subscribe(client Client, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range topics {
		if _, ok := h.topics[topic]; !ok {
			h.topics[topic] = make(map[Client]bool)
		}
		h.topics[topic][client] = true
	}
}

// Unsubscribe removes a client from every topic and closes its channel.
// Calling it twice for the same client is a no-op.
func (h *Hub) Unsubscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	found := false
	for topic, clients := range h.topics {
		if _, ok := clients[client]; !ok {
			continue
		}
		found = true
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
	if found {
		close(client)
	}
}

// Subscribers returns the number of clients listening on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends an event to all clients of a topic.
func (h *Hub) Broadcast(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.topics[topic]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", "topic", topic, "type", event.Type, "error", err)
		return
	}

	for client := range clients {
		// Non-blocking so a slow client cannot stall writers.
		select {
		case client <- messageBytes:
		default:
			h.logger.Warn("dropped event for slow client", "topic", topic, "type", event.Type)
		}
	}
}
