// Package ws broadcasts resource lifecycle events to WebSocket subscribers.
// Topics follow the domain packages: "requests", "donors", "organs" and
// "inventory". Delivery is best effort; a slow or gone subscriber never
// blocks or fails the operation that produced the event.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Well-known topics.
const (
	TopicRequests  = "requests"
	TopicDonors    = "donors"
	TopicOrgans    = "organs"
	TopicInventory = "inventory"
)

// Event is a single real-time notification.
type Event struct {
	Type       string          `json:"type"`
	Topic      string          `json:"topic"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resource_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an Event with the payload JSON-encoded. Encoding failures
// drop the payload rather than the event.
func NewEvent(eventType, topic, resource, resourceID string, payload interface{}) Event {
	ev := Event{
		Type:       eventType,
		Topic:      topic,
		Resource:   resource,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			ev.Data = data
		}
	}
	return ev
}

// EventPublisher is the notifier interface domain services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events. Useful in tests and CLI commands.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// subscription is an inbound control message from a client.
type subscription struct {
	Action string   `json:"action"` // subscribe | unsubscribe
	Topics []string `json:"topics"`
}

// client is a single connected subscriber.
type client struct {
	id     string
	topics map[string]struct{}
	send   chan []byte
}

// Hub tracks connected clients and their topic subscriptions.
type Hub struct {
	mu      sync.RWMutex
	byTopic map[string]map[*client]struct{}
	all     map[*client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		byTopic: make(map[string]map[*client]struct{}),
		all:     make(map[*client]struct{}),
		log:     log,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[c] = struct{}{}
	for topic := range c.topics {
		h.addTopicLocked(topic, c)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.all[c]; !ok {
		return
	}
	for topic := range c.topics {
		h.removeTopicLocked(topic, c)
	}
	delete(h.all, c)
	close(c.send)
}

func (h *Hub) addTopicLocked(topic string, c *client) {
	if h.byTopic[topic] == nil {
		h.byTopic[topic] = make(map[*client]struct{})
	}
	h.byTopic[topic][c] = struct{}{}
	c.topics[topic] = struct{}{}
}

func (h *Hub) removeTopicLocked(topic string, c *client) {
	if subs, ok := h.byTopic[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.byTopic, topic)
		}
	}
	delete(c.topics, topic)
}

func (h *Hub) subscribe(c *client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		h.addTopicLocked(t, c)
	}
}

func (h *Hub) unsubscribe(c *client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		h.removeTopicLocked(t, c)
	}
}

// Publish implements EventPublisher by broadcasting to the event's topic.
func (h *Hub) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("topic", event.Topic).Msg("ws: marshal event")
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byTopic[event.Topic] {
		select {
		case c.send <- data:
		default:
			// Subscriber buffer full; drop for this client.
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// SubscriberCount returns the number of clients subscribed to a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byTopic[topic])
}

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades HTTP connections and pumps hub events to them.
type Handler struct {
	hub *Hub
}

// NewHandler binds a Handler to the hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes registers the WebSocket endpoint.
func (wh *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", wh.Connect)
}

// Connect upgrades the request, registers the client, and starts the
// read/write pumps. Initial topics come from the "topics" query parameter
// (comma separated); clients may adjust subscriptions afterwards.
func (wh *Handler) Connect(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{
		id:     uuid.New().String(),
		topics: make(map[string]struct{}),
		send:   make(chan []byte, 256),
	}
	if raw := c.QueryParam("topics"); raw != "" {
		for _, t := range splitTopics(raw) {
			cl.topics[t] = struct{}{}
		}
	}
	wh.hub.register(cl)

	go wh.writePump(cl, conn)
	go wh.readPump(cl, conn)
	return nil
}

func (wh *Handler) readPump(cl *client, conn *gws.Conn) {
	defer func() {
		wh.hub.unregister(cl)
		conn.Close()
	}()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub subscription
		if err := json.Unmarshal(msg, &sub); err != nil {
			continue // ignore malformed control messages
		}
		switch sub.Action {
		case "subscribe":
			wh.hub.subscribe(cl, sub.Topics)
		case "unsubscribe":
			wh.hub.unsubscribe(cl, sub.Topics)
		}
	}
}

func (wh *Handler) writePump(cl *client, conn *gws.Conn) {
	defer conn.Close()
	for msg := range cl.send {
		if err := conn.WriteMessage(gws.TextMessage, msg); err != nil {
			return
		}
	}
}

func splitTopics(raw string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if t := raw[start:i]; t != "" {
				out = append(out, t)
			}
			start = i + 1
		}
	}
	return out
}
