package storage

import (
	"context"

	"github.com/mcoot/battleship-go/internal/model"
)

// Storage defines the interface for the room read model and match history.
// Live game state is owned by the room coordinator; records here are copies written after each change.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.RoomRecord) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.RoomRecord, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRooms(ctx context.Context) ([]*model.RoomRecord, error)

	// Match result operations. Results are listed newest first; limit <= 0 returns all.
	SaveMatchResult(ctx context.Context, result *model.MatchResult) error
	ListMatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error)
}
