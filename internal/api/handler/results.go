package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// ResultHandler serves finished match results
type ResultHandler struct {
	coordinator room.CoordinatorInterface
}

// NewResultHandler creates a new result handler
func NewResultHandler(coordinator room.CoordinatorInterface) *ResultHandler {
	return &ResultHandler{coordinator: coordinator}
}

// List handles GET /api/v1/results?limit=N
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	results, err := h.coordinator.MatchResults(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	list := make([]response.MatchResult, len(results))
	for i, result := range results {
		list[i] = response.MatchResultFromModel(result)
	}
	response.JSON(w, http.StatusOK, response.ResultList{Results: list})
}
