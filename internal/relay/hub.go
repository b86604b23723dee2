package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/gamesync"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/storage"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

const storageOpTimeout = 5 * time.Second

// Hub relays frames between the clients of a single room. The relay is
// deliberately dumb about game semantics: frames pass through untouched
// to the room's other clients. The only envelopes the hub originates
// are presence updates.
type Hub struct {
	roomID  string
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger
	storage storage.Storage

	register   chan *Client
	unregister chan *Client
	forward    chan inbound
	done       chan struct{}
}

type inbound struct {
	from  *Client
	frame []byte
}

// NewHub creates a new Hub for a room
func NewHub(roomID string, store storage.Storage, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("room_id", roomID)),
		storage:    store,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		forward:    make(chan inbound, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("relay hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.persistPresence(client.userID, true)
			h.broadcastPresence(client.userID, "")
			h.logger.Info("relay client registered",
				slog.String("user_id", client.userID),
				slog.String("role", string(client.role)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.persistPresence(client.userID, false)
				h.broadcastPresence("", client.userID)
				h.logger.Info("relay client unregistered",
					slog.String("user_id", client.userID),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.forward:
			h.mu.RLock()
			for client := range h.clients {
				if client == msg.from {
					continue
				}
				client.deliver(msg.frame)
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("relay hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Attach joins a bus to the room and starts relaying its frames. The
// returned client detaches when its bus closes.
func (h *Hub) Attach(userID string, role model.PlayerRole, bus transport.Bus) *Client {
	client := &Client{
		userID:      userID,
		role:        role,
		bus:         bus,
		hub:         h,
		logger:      h.logger,
		connectedAt: time.Now(),
	}
	h.register <- client
	go client.readPump()
	return client
}

// Forward hands an inbound frame to the relay loop
func (h *Hub) Forward(from *Client, frame []byte) {
	select {
	case h.forward <- inbound{from: from, frame: frame}:
	case <-h.done:
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) presentUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for c := range h.clients {
		ids = append(ids, c.userID)
	}
	return ids
}

func (h *Hub) persistPresence(userID string, joined bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	var err error
	if joined {
		err = h.storage.AddPresence(ctx, h.roomID, userID)
	} else {
		err = h.storage.RemovePresence(ctx, h.roomID, userID)
	}
	if err != nil {
		h.logger.Warn("presence persistence failed", "user_id", userID, "error", err)
	}
}

// broadcastPresence tells every client who is connected now
func (h *Hub) broadcastPresence(joined, left string) {
	env := &gamesync.Envelope{
		Type:   gamesync.MessagePresence,
		RoomID: h.roomID,
		Presence: &gamesync.Presence{
			UserIDs: h.presentUserIDs(),
			Joined:  joined,
			Left:    left,
		},
	}
	frame, err := gamesync.Encode(env)
	if err != nil {
		h.logger.Error("presence encode failed", "error", err)
		return
	}

	h.mu.RLock()
	for client := range h.clients {
		client.deliver(frame)
	}
	h.mu.RUnlock()
}

// HubManager manages hubs for all rooms
type HubManager struct {
	hubs    map[string]*Hub
	mu      sync.RWMutex
	logger  *slog.Logger
	storage storage.Storage
}

// NewHubManager creates a new HubManager
func NewHubManager(store storage.Storage, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:    make(map[string]*Hub),
		logger:  logger.With(slog.String("component", "relay")),
		storage: store,
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.storage, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID string) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("relay hub removed", slog.String("room_id", roomID))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for roomID, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, roomID)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("relay empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}
