package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// RoomHandler serves the read-only room endpoints
type RoomHandler struct {
	coordinator room.CoordinatorInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(coordinator room.CoordinatorInterface) *RoomHandler {
	return &RoomHandler{coordinator: coordinator}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.coordinator.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	rooms := make([]response.Room, len(records))
	for i, record := range records {
		rooms[i] = response.RoomFromModel(record)
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}

// Get handles GET /api/v1/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomId"])

	record, err := h.coordinator.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(record))
}

// RenderGrid handles GET /api/v1/rooms/{roomId}/grids/{gridId}/render
func (h *RoomHandler) RenderGrid(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	rendered, err := h.coordinator.RenderGrid(r.Context(), model.RoomID(vars["roomId"]), model.GridID(vars["gridId"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Text(w, http.StatusOK, rendered)
}
