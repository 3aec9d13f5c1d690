package model

import (
	"encoding/json"
	"errors"
)

// EventType identifies the type of a message exchanged with clients
type EventType string

const (
	// Client to server commands
	EventJoinGame    EventType = "JOIN_GAME"
	EventStartGame   EventType = "START_GAME"
	EventClickSquare EventType = "CLICK_SQUARE"

	// Server to client events
	EventJoinAck         EventType = "JOIN_ACK"
	EventGameReady       EventType = "GAME_READY"
	EventGameStarted     EventType = "GAME_STARTED"
	EventUpdateGame      EventType = "UPDATE_GAME"
	EventPlayerLeave     EventType = "PLAYER_LEAVE"
	EventGameOver        EventType = "GAME_OVER"
	EventCommandRejected EventType = "COMMAND_REJECTED"
)

// Message is the envelope for everything sent over a connection
type Message struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage encodes payload into a message envelope. A nil payload is omitted.
func NewMessage(t EventType, payload any) (Message, error) {
	msg := Message{Type: t}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = data
	return msg, nil
}

// DecodePayload unmarshals the payload into v, wrapping failures as ErrInvalidMessage
func (m Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return errors.Join(ErrInvalidMessage, errors.New("missing payload"))
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return errors.Join(ErrInvalidMessage, err)
	}
	return nil
}

// JoinGamePayload is sent by a client to take a seat with a pre-placed fleet
type JoinGamePayload struct {
	RoomID   RoomID         `json:"roomId"`
	Passcode string         `json:"passcode,omitempty"`
	Player   PlayerSnapshot `json:"player"`
	Grid     GridSnapshot   `json:"grid"`
}

// StartGamePayload is sent by a client to begin guessing
type StartGamePayload struct {
	RoomID RoomID `json:"roomId"`
}

// ClickSquarePayload is sent by a client to fire at a square
type ClickSquarePayload struct {
	RoomID          RoomID     `json:"roomId"`
	SendingPlayerID PlayerID   `json:"sendingPlayerId"`
	GuessedGridID   GridID     `json:"guessedGridId"`
	Coordinate      Coordinate `json:"coordinate"`
}

// JoinAckPayload answers a join request to the sender only
type JoinAckPayload struct {
	RoomID   RoomID   `json:"roomId"`
	PlayerID PlayerID `json:"playerId"`
	GridID   GridID   `json:"gridId"`
}

// GameStatePayload carries a game snapshot. Used by GAME_READY, GAME_STARTED and UPDATE_GAME.
type GameStatePayload struct {
	RoomID RoomID       `json:"roomId"`
	Game   GameSnapshot `json:"game"`
	Shot   *ShotPayload `json:"shot,omitempty"`
}

// ShotPayload describes the last shot in an UPDATE_GAME
type ShotPayload struct {
	PlayerID   PlayerID   `json:"playerId"`
	GridID     GridID     `json:"gridId"`
	Coordinate Coordinate `json:"coordinate"`
	Hit        bool       `json:"hit"`
	Sunk       bool       `json:"sunk"`
	ShipID     ShipID     `json:"shipId,omitempty"`
}

// PlayerLeavePayload is broadcast when a connection leaves a room
type PlayerLeavePayload struct {
	RoomID   RoomID       `json:"roomId"`
	PlayerID PlayerID     `json:"playerId,omitempty"`
	Game     GameSnapshot `json:"game"`
}

// GameOverPayload is broadcast once a fleet has been sunk
type GameOverPayload struct {
	RoomID     RoomID   `json:"roomId"`
	Winner     PlayerID `json:"winner"`
	WinnerName string   `json:"winnerName"`
}

// CommandRejectedPayload is sent to the sender only when a command fails
type CommandRejectedPayload struct {
	Command EventType `json:"command"`
	Code    string    `json:"code"`
	Reason  string    `json:"reason"`
}

// ErrorCode maps an error to a stable machine readable code
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, ErrRoomFull):
		return "ROOM_FULL"
	case errors.Is(err, ErrAlreadyInRoom):
		return "ALREADY_IN_ROOM"
	case errors.Is(err, ErrNotInRoom):
		return "NOT_IN_ROOM"
	case errors.Is(err, ErrInvalidPasscode):
		return "INVALID_PASSCODE"
	case errors.Is(err, ErrPlayerAlreadyJoined):
		return "PLAYER_ALREADY_JOINED"
	case errors.Is(err, ErrGameAlreadyStarted):
		return "GAME_ALREADY_STARTED"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "NOT_ENOUGH_PLAYERS"
	case errors.Is(err, ErrWrongPhase):
		return "WRONG_PHASE"
	case errors.Is(err, ErrNotPlayerTurn):
		return "NOT_PLAYER_TURN"
	case errors.Is(err, ErrSelfTarget):
		return "SELF_TARGET"
	case errors.Is(err, ErrUnknownPlayer):
		return "UNKNOWN_PLAYER"
	case errors.Is(err, ErrUnknownGrid):
		return "UNKNOWN_GRID"
	case errors.Is(err, ErrInvalidCoordinate):
		return "INVALID_COORDINATE"
	case errors.Is(err, ErrPlayerMismatch):
		return "PLAYER_MISMATCH"
	case errors.Is(err, ErrInvalidMove):
		return "INVALID_MOVE"
	case errors.Is(err, ErrAlreadyGuessed):
		return "ALREADY_GUESSED"
	case errors.Is(err, ErrInvalidDamage):
		return "INVALID_DAMAGE"
	case errors.Is(err, ErrInvalidFleet), errors.Is(err, ErrOutOfBounds), errors.Is(err, ErrShipOverlap):
		return "INVALID_FLEET"
	case errors.Is(err, ErrInvalidRoomID):
		return "INVALID_ROOM_ID"
	case errors.Is(err, ErrInvalidSnapshot), errors.Is(err, ErrInvalidMessage):
		return "INVALID_MESSAGE"
	case errors.Is(err, ErrUnknownStrategy):
		return "UNKNOWN_STRATEGY"
	default:
		return "INTERNAL_ERROR"
	}
}
