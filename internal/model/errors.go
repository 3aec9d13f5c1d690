package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyInRoom       = errors.New("connection already belongs to another room")
	ErrNotInRoom           = errors.New("connection is not in this room")
	ErrInvalidPasscode     = errors.New("invalid room passcode")
	ErrPlayerAlreadyJoined = errors.New("player has already joined")

	// Phase errors
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrNotEnoughPlayers   = errors.New("not enough players to start game")
	ErrWrongPhase         = errors.New("action not allowed in current phase")

	// Move errors. The specific kinds all wrap ErrInvalidMove.
	ErrInvalidMove       = errors.New("invalid move")
	ErrNotPlayerTurn     = fmt.Errorf("%w: not this player's turn", ErrInvalidMove)
	ErrSelfTarget        = fmt.Errorf("%w: player cannot target their own grid", ErrInvalidMove)
	ErrUnknownPlayer     = fmt.Errorf("%w: unknown player", ErrInvalidMove)
	ErrUnknownGrid       = fmt.Errorf("%w: unknown grid", ErrInvalidMove)
	ErrInvalidCoordinate = fmt.Errorf("%w: coordinate out of range", ErrInvalidMove)
	ErrPlayerMismatch    = fmt.Errorf("%w: connection does not control this player", ErrInvalidMove)
	ErrAlreadyGuessed    = errors.New("square has already been guessed")

	// Ship and placement errors
	ErrInvalidDamage = errors.New("invalid damage")
	ErrOutOfBounds   = errors.New("ship placement is out of bounds")
	ErrShipOverlap   = errors.New("ship placement overlaps an existing ship")
	ErrInvalidFleet  = errors.New("invalid fleet")

	// Serialization errors
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrInvalidRoomID   = fmt.Errorf("%w: room id must be 1-64 characters", ErrInvalidMessage)

	// Bot errors
	ErrUnknownStrategy = errors.New("unknown bot strategy")
)
