package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/battleship-go/internal/api/request"
	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/bot"
)

// BotHandler seats computer opponents
type BotHandler struct {
	botService bot.ServiceInterface
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService bot.ServiceInterface) *BotHandler {
	return &BotHandler{botService: botService}
}

// Add handles POST /api/v1/rooms/{roomId}/bots
func (h *BotHandler) Add(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["roomId"])

	// An empty body asks for the default strategy
	var req request.AddBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.botService.AddBot(r.Context(), bot.AddBotArgs{
		RoomID:   roomID,
		Passcode: req.Passcode,
		Strategy: req.Strategy,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.BotFromModel(roomID, player))
}
