package model

import "time"

// RoomID identifies a room. Rooms are named by the clients that join them.
type RoomID string

// MaxRoomIDLength bounds client supplied room ids
const MaxRoomIDLength = 64

// RoomRecord is the stored read model of a live room
type RoomRecord struct {
	RoomID      RoomID       `json:"roomId"`
	Snapshot    GameSnapshot `json:"snapshot"`
	Connections int          `json:"connections"`
	Private     bool         `json:"private"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// MatchResult is a record of a finished game
type MatchResult struct {
	RoomID     RoomID    `json:"roomId"`
	Winner     PlayerID  `json:"winner"`
	WinnerName string    `json:"winnerName"`
	Loser      PlayerID  `json:"loser"`
	LoserName  string    `json:"loserName"`
	Shots      int       `json:"shots"`
	FinishedAt time.Time `json:"finishedAt"`
}
