package memory

import (
	"context"
	"sync"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms   map[model.RoomID]*model.RoomRecord
	results []*model.MatchResult
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms: make(map[model.RoomID]*model.RoomRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.RoomRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *room
	s.rooms[room.RoomID] = &record
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.RoomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	record := *room
	return &record, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.RoomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*model.RoomRecord, 0, len(s.rooms))
	for _, room := range s.rooms {
		record := *room
		rooms = append(rooms, &record)
	}
	storage.SortRooms(rooms)
	return rooms, nil
}

// Match result operations

func (s *Storage) SaveMatchResult(ctx context.Context, result *model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := *result
	s.results = append(s.results, &record)
	return nil
}

func (s *Storage) ListMatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.MatchResult, 0, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		record := *s.results[i]
		results = append(results, &record)
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}
