package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/battleship-go/internal/services/room"
)

// ErrHubClosed is returned when registering after Close
var ErrHubClosed = errors.New("websocket hub closed")

// Hub tracks every live websocket client and hands their commands to the coordinator
type Hub struct {
	mu      sync.RWMutex
	clients map[room.ConnID]*Client
	closed  bool

	coordinator room.CoordinatorInterface
	logger      *slog.Logger
}

// NewHub creates a new Hub
func NewHub(coordinator room.CoordinatorInterface, logger *slog.Logger) *Hub {
	return &Hub{
		clients:     make(map[room.ConnID]*Client),
		coordinator: coordinator,
		logger:      logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client and announces it to the coordinator
func (h *Hub) Register(client *Client) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.coordinator.Connect(client)
	h.logger.Debug("ws client registered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", clientCount))
	return nil
}

// Unregister removes a client, stops its writer and tells the coordinator it is gone.
// Unknown or already removed clients are ignored.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	clientCount := len(h.clients)
	h.mu.Unlock()

	client.stop()
	h.coordinator.Disconnect(ctx, client)
	h.logger.Debug("ws client unregistered",
		slog.String("conn_id", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close(ctx context.Context) {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.Unregister(ctx, client)
	}
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", len(clients)))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
