package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/battleship-go/internal/dependencies/ids"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// Handler upgrades HTTP requests to websocket clients of a Hub
type Handler struct {
	hub      *Hub
	ids      ids.Generator
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new websocket Handler
func NewHandler(hub *Hub, idGen ids.Generator, cfg Config, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:    hub,
		ids:    idGen,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "ws")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeHTTP handles GET /ws
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Warn("ws upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	client := newClient(room.ConnID(h.ids.NewID()), conn, h.hub, h.cfg, h.logger)
	if err := h.hub.Register(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		_ = conn.Close()
		return
	}

	// The request context ends when this handler returns, so the pumps get their own
	ctx := context.WithoutCancel(r.Context())
	go client.writePump()
	go client.readPump(ctx)
}

// checkOrigin accepts non-browser clients (no Origin header) and, when configured, only the allowed origin
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.cfg.AllowedOrigin == "" {
		return true
	}
	return origin == h.cfg.AllowedOrigin
}
