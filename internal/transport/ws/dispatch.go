package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/room"
)

var errInternal = errors.New("internal error")

// dispatch decodes one inbound frame and runs it against the coordinator.
// The coordinator rejects failed commands itself; only decode failures are rejected here.
func (h *Hub) dispatch(ctx context.Context, client *Client, data []byte) {
	var msg model.Message
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic handling ws command",
				slog.String("conn_id", string(client.id)),
				slog.String("command", string(msg.Type)),
				slog.Any("panic", r))
			h.coordinator.Reject(client, msg.Type, errInternal)
		}
	}()

	if err := json.Unmarshal(data, &msg); err != nil {
		h.coordinator.Reject(client, "", errors.Join(model.ErrInvalidMessage, err))
		return
	}

	switch msg.Type {
	case model.EventJoinGame:
		args, err := decodeJoinGame(msg)
		if err != nil {
			h.coordinator.Reject(client, msg.Type, err)
			return
		}
		_ = h.coordinator.JoinGame(ctx, client, args)

	case model.EventStartGame:
		args, err := decodeStartGame(msg)
		if err != nil {
			h.coordinator.Reject(client, msg.Type, err)
			return
		}
		_ = h.coordinator.StartGame(ctx, client, args)

	case model.EventClickSquare:
		args, err := decodeClickSquare(msg)
		if err != nil {
			h.coordinator.Reject(client, msg.Type, err)
			return
		}
		_, _ = h.coordinator.ClickSquare(ctx, client, args)

	default:
		h.coordinator.Reject(client, msg.Type, fmt.Errorf("%w: unknown command %q", model.ErrInvalidMessage, msg.Type))
	}
}

func decodeJoinGame(msg model.Message) (room.JoinGameArgs, error) {
	var payload model.JoinGamePayload
	if err := msg.DecodePayload(&payload); err != nil {
		return room.JoinGameArgs{}, err
	}

	player, err := model.PlayerFromSnapshot(payload.Player)
	if err != nil {
		return room.JoinGameArgs{}, err
	}
	grid, err := model.GridFromSnapshot(payload.Grid)
	if err != nil {
		return room.JoinGameArgs{}, err
	}

	return room.JoinGameArgs{
		RoomID:   payload.RoomID,
		Passcode: payload.Passcode,
		Player:   player,
		Grid:     grid,
	}, nil
}

func decodeStartGame(msg model.Message) (room.StartGameArgs, error) {
	var payload model.StartGamePayload
	if err := msg.DecodePayload(&payload); err != nil {
		return room.StartGameArgs{}, err
	}
	return room.StartGameArgs{RoomID: payload.RoomID}, nil
}

func decodeClickSquare(msg model.Message) (room.ClickSquareArgs, error) {
	var payload model.ClickSquarePayload
	if err := msg.DecodePayload(&payload); err != nil {
		return room.ClickSquareArgs{}, err
	}
	if payload.SendingPlayerID == "" || payload.GuessedGridID == "" {
		return room.ClickSquareArgs{}, fmt.Errorf("%w: sendingPlayerId and guessedGridId are required", model.ErrInvalidMessage)
	}
	return room.ClickSquareArgs{
		RoomID:          payload.RoomID,
		SendingPlayerID: payload.SendingPlayerID,
		GuessedGridID:   payload.GuessedGridID,
		Coordinate:      payload.Coordinate,
	}, nil
}
