package room

import (
	"sync"
	"time"

	"github.com/mcoot/battleship-go/internal/model"
)

// ConnID identifies a live client connection
type ConnID string

// Conn is a client connection the coordinator can push messages to.
// Send must not block; the transport owns buffering.
type Conn interface {
	ID() ConnID
	Send(msg model.Message)
}

// Room is one game plus the connections attached to it.
// mu serializes every command for the room, including the broadcasts they trigger.
type Room struct {
	mu sync.Mutex

	id           model.RoomID
	game         *model.Game
	conns        map[ConnID]Conn
	players      map[ConnID]model.PlayerID
	passcodeHash []byte
	shots        int
	createdAt    time.Time
	closed       bool
}

func newRoom(id model.RoomID, now time.Time) *Room {
	return &Room{
		id:        id,
		game:      model.NewGame(),
		conns:     make(map[ConnID]Conn),
		players:   make(map[ConnID]model.PlayerID),
		createdAt: now,
	}
}

// isPrivate reports whether joining requires a passcode
func (r *Room) isPrivate() bool {
	return len(r.passcodeHash) > 0
}

// record builds the stored read model. Callers hold r.mu.
func (r *Room) record(now time.Time) *model.RoomRecord {
	return &model.RoomRecord{
		RoomID:      r.id,
		Snapshot:    r.game.Snapshot(),
		Connections: len(r.conns),
		Private:     r.isPrivate(),
		CreatedAt:   r.createdAt,
		UpdatedAt:   now,
	}
}
