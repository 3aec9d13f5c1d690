package redis

import (
	"fmt"

	"github.com/mcoot/battleship-go/internal/model"
)

// Key prefix for all battleship data
const keyPrefix = "bship"

// roomKey returns the Redis key for a room record
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// resultsKey returns the Redis key for the LIST of match results, newest at the head
func resultsKey() string {
	return fmt.Sprintf("%s:results", keyPrefix)
}
