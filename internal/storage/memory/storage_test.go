package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battleship-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) room(id model.RoomID, created time.Time) *model.RoomRecord {
	return &model.RoomRecord{
		RoomID:      id,
		Snapshot:    model.NewGame().Snapshot(),
		Connections: 1,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	err := s.storage.SaveRoom(s.ctx, s.room("room-1", s.now))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomID("room-1"), retrieved.RoomID)
	s.Equal(model.GamePhaseWaiting, retrieved.Snapshot.Phase)
	s.Equal(1, retrieved.Connections)
}

func (s *StorageSuite) TestSaveRoomOverwrites() {
	record := s.room("room-1", s.now)
	s.Require().NoError(s.storage.SaveRoom(s.ctx, record))

	record.Connections = 2
	s.Require().NoError(s.storage.SaveRoom(s.ctx, record))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(2, retrieved.Connections)
}

func (s *StorageSuite) TestSavedRoomIsCopied() {
	record := s.room("room-1", s.now)
	s.Require().NoError(s.storage.SaveRoom(s.ctx, record))
	record.Connections = 5

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(1, retrieved.Connections)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, s.room("room-1", s.now))

	err := s.storage.DeleteRoom(s.ctx, "room-1")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRoomsOldestFirst() {
	_ = s.storage.SaveRoom(s.ctx, s.room("room-b", s.now.Add(time.Minute)))
	_ = s.storage.SaveRoom(s.ctx, s.room("room-a", s.now))
	_ = s.storage.SaveRoom(s.ctx, s.room("room-c", s.now.Add(time.Minute)))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal(model.RoomID("room-a"), rooms[0].RoomID)
	s.Equal(model.RoomID("room-b"), rooms[1].RoomID)
	s.Equal(model.RoomID("room-c"), rooms[2].RoomID)
}

// Match result tests

func (s *StorageSuite) TestListMatchResultsNewestFirst() {
	for i, room := range []model.RoomID{"room-1", "room-2", "room-3"} {
		err := s.storage.SaveMatchResult(s.ctx, &model.MatchResult{
			RoomID:     room,
			Winner:     "alice",
			FinishedAt: s.now.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}

	results, err := s.storage.ListMatchResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(model.RoomID("room-3"), results[0].RoomID)

	limited, err := s.storage.ListMatchResults(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(limited, 2)
	s.Equal(model.RoomID("room-2"), limited[1].RoomID)
}

func (s *StorageSuite) TestListMatchResultsEmpty() {
	results, err := s.storage.ListMatchResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}
