package room

import (
	"context"
	"fmt"

	"github.com/mcoot/battleship-go/internal/model"
)

// DefaultResultsLimit is used when a caller asks for match results without a limit
const DefaultResultsLimit = 50

// ListRooms returns every live room as a spectator sees it
func (c *Coordinator) ListRooms(ctx context.Context) ([]*model.RoomRecord, error) {
	records, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*model.RoomRecord, 0, len(records))
	for _, record := range records {
		view, err := spectatorView(record)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetRoom returns one room as a spectator sees it. Finished games are shown in full.
func (c *Coordinator) GetRoom(ctx context.Context, id model.RoomID) (*model.RoomRecord, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	record, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return spectatorView(record)
}

// RenderGrid draws one grid of a room as text. Ship positions are only drawn once the game is over.
func (c *Coordinator) RenderGrid(ctx context.Context, id model.RoomID, gridID model.GridID) (string, error) {
	if err := validateRoomID(id); err != nil {
		return "", err
	}
	record, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return "", err
	}

	game, err := model.GameFromSnapshot(record.Snapshot)
	if err != nil {
		return "", err
	}
	grid := game.Grid(gridID)
	if grid == nil {
		return "", fmt.Errorf("%w: %s", model.ErrUnknownGrid, gridID)
	}
	return grid.Render(game.Phase == model.GamePhaseEnd), nil
}

// MatchResults returns finished games, newest first
func (c *Coordinator) MatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	if limit <= 0 {
		limit = DefaultResultsLimit
	}
	return c.storage.ListMatchResults(ctx, limit)
}

// spectatorView rebuilds the stored game and redacts it for a viewer holding no seat
func spectatorView(record *model.RoomRecord) (*model.RoomRecord, error) {
	game, err := model.GameFromSnapshot(record.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", record.RoomID, err)
	}

	view := *record
	if game.Phase == model.GamePhaseEnd {
		view.Snapshot = game.Snapshot()
	} else {
		view.Snapshot = game.SnapshotFor("")
	}
	return &view, nil
}
