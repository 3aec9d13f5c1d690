package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battleship-go/internal/api/handler"
	"github.com/mcoot/battleship-go/internal/api/middleware"
	"github.com/mcoot/battleship-go/internal/metrics"
	"github.com/mcoot/battleship-go/internal/services/bot"
	"github.com/mcoot/battleship-go/internal/services/fleet"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Coordinator  room.CoordinatorInterface
	FleetService fleet.ServiceInterface
	// BotService seats computer opponents (optional)
	BotService bot.ServiceInterface
	Metrics    *metrics.Metrics
	// WebsocketHandler serves GET /ws (optional)
	WebsocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Coordinator)
	resultHandler := handler.NewResultHandler(cfg.Coordinator)
	fleetHandler := handler.NewFleetHandler(cfg.FleetService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.Metrics != nil {
		api.Use(middleware.Metrics(cfg.Metrics))
	}

	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}/grids/{gridId}/render", roomHandler.RenderGrid).Methods(http.MethodGet)
	api.HandleFunc("/results", resultHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/fleets/random", fleetHandler.Random).Methods(http.MethodPost)
	if cfg.BotService != nil {
		botHandler := handler.NewBotHandler(cfg.BotService)
		api.HandleFunc("/rooms/{roomId}/bots", botHandler.Add).Methods(http.MethodPost)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.WebsocketHandler != nil {
		r.Handle("/ws", loggingMiddleware(cfg.WebsocketHandler)).Methods(http.MethodGet)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
