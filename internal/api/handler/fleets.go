package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mcoot/battleship-go/internal/api/request"
	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/services/fleet"
)

// FleetHandler hands out randomly placed fleets for clients that do not place their own
type FleetHandler struct {
	fleetService fleet.ServiceInterface
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleetService fleet.ServiceInterface) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// Random handles POST /api/v1/fleets/random
func (h *FleetHandler) Random(w http.ResponseWriter, r *http.Request) {
	var req request.RandomFleetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if len(name) > request.MaxNameLength {
		WriteError(w, NewInvalidRequestError("name is too long"))
		return
	}

	player, grid, err := h.fleetService.RandomFleet(name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.FleetFromModel(player, grid))
}
