package storage

import (
	"sort"

	"github.com/mcoot/battleship-go/internal/model"
)

// SortRooms orders rooms oldest first, breaking ties by id
func SortRooms(rooms []*model.RoomRecord) {
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].RoomID < rooms[j].RoomID
	})
}
