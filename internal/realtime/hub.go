package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/playroom-games/playroom/internal/model"
)

const sendBufferSize = 256

// Subscriber is one connection subscribed to a room's topic
type Subscriber struct {
	hub         *Hub
	playerID    model.PlayerID
	send        chan []byte
	connectedAt time.Time
}

// NewSubscriber creates a subscriber for the given player identity
func NewSubscriber(hub *Hub, playerID model.PlayerID) *Subscriber {
	return &Subscriber{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// PlayerID returns the connection identity this subscriber belongs to
func (s *Subscriber) PlayerID() model.PlayerID { return s.playerID }

// Send returns the channel of encoded outbound messages. The channel is
// closed when the subscriber is unregistered or the hub shuts down.
func (s *Subscriber) Send() <-chan []byte { return s.send }

// Hub manages the subscribers of a single room's topic
type Hub struct {
	roomID      model.RoomID
	subscribers map[*Subscriber]bool
	mu          sync.RWMutex
	logger      *slog.Logger

	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:      roomID,
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("room", string(roomID))),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("room topic started")
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Info("subscriber registered",
				slog.String("player_id", string(sub.playerID)),
				slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Info("subscriber unregistered",
					slog.String("player_id", string(sub.playerID)),
					slog.Duration("connection_duration", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case data := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for sub := range h.subscribers {
				select {
				case sub.send <- data:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("broadcast dropped for slow subscribers",
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			for sub := range h.subscribers {
				close(sub.send)
				delete(h.subscribers, sub)
			}
			h.mu.Unlock()
			h.logger.Debug("room topic stopped")
			return
		}
	}
}

// Register adds a subscriber to the topic
func (h *Hub) Register(sub *Subscriber) {
	select {
	case h.register <- sub:
	case <-h.done:
	}
}

// Unregister removes a subscriber from the topic
func (h *Hub) Unregister(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Broadcast sends encoded data to every subscriber
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn("broadcast dropped - topic buffer full")
	}
}

// SendTo sends encoded data only to subscribers with the given identity
func (h *Hub) SendTo(playerID model.PlayerID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		if sub.playerID != playerID {
			continue
		}
		select {
		case sub.send <- data:
		default:
			h.logger.Warn("direct message dropped - subscriber buffer full",
				slog.String("player_id", string(playerID)))
		}
	}
}

// Close shuts down the topic
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// SubscriberCount returns the number of live subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HubManager owns one hub per room and implements the Broadcaster boundary
type HubManager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure HubManager implements the Broadcaster boundary
var _ Broadcaster = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]*Hub),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if absent
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if none exists
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// Publish fans a message out to every subscriber of the room's topic.
// Publishing to a room without a topic is a no-op.
func (m *HubManager) Publish(roomID model.RoomID, msg Message) {
	hub := m.GetHub(roomID)
	if hub == nil {
		return
	}
	hub.Broadcast(msg.Encode())
}

// SendTo delivers a message only to the given player's connections
func (m *HubManager) SendTo(roomID model.RoomID, playerID model.PlayerID, msg Message) {
	hub := m.GetHub(roomID)
	if hub == nil {
		return
	}
	hub.SendTo(playerID, msg.Encode())
}

// CloseRoom removes and closes the room's topic
func (m *HubManager) CloseRoom(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("room topic removed", slog.String("room", string(roomID)))
	}
}
