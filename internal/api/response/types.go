package response

import (
	"time"

	"github.com/mcoot/battleship-go/internal/model"
)

// Room represents a room in API responses
type Room struct {
	RoomID      string             `json:"room_id"`
	Phase       string             `json:"phase"`
	Players     []RoomPlayer       `json:"players"`
	Connections int                `json:"connections"`
	Private     bool               `json:"private"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Game        model.GameSnapshot `json:"game"`
}

// RoomPlayer is a seated player with its fleet status
type RoomPlayer struct {
	PlayerID       string `json:"player_id"`
	Name           string `json:"name"`
	GridID         string `json:"grid_id"`
	ShipsRemaining int    `json:"ships_remaining"`
	IsTurn         bool   `json:"is_turn"`
}

// RoomFromModel converts a room record. The record's snapshot is expected to be redacted already.
func RoomFromModel(r *model.RoomRecord) Room {
	players := make([]RoomPlayer, 0, len(r.Snapshot.PlayerOrder))
	started := r.Snapshot.Phase == model.GamePhaseGuessing
	for i, id := range r.Snapshot.PlayerOrder {
		p := r.Snapshot.Players[id]
		remaining := 0
		for _, ship := range p.Ships {
			if len(ship.Damage) < ship.Length {
				remaining++
			}
		}
		players = append(players, RoomPlayer{
			PlayerID:       string(id),
			Name:           p.Name,
			GridID:         string(r.Snapshot.PlayerIDToGridID[id]),
			ShipsRemaining: remaining,
			IsTurn:         started && i == r.Snapshot.CurrentPlayerTurn,
		})
	}

	return Room{
		RoomID:      string(r.RoomID),
		Phase:       string(r.Snapshot.Phase),
		Players:     players,
		Connections: r.Connections,
		Private:     r.Private,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Game:        r.Snapshot,
	}
}

// RoomList is the response for GET /api/v1/rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// MatchResult represents a finished match
type MatchResult struct {
	RoomID     string    `json:"room_id"`
	Winner     string    `json:"winner"`
	WinnerName string    `json:"winner_name"`
	Loser      string    `json:"loser"`
	LoserName  string    `json:"loser_name"`
	Shots      int       `json:"shots"`
	FinishedAt time.Time `json:"finished_at"`
}

// MatchResultFromModel converts model.MatchResult
func MatchResultFromModel(m *model.MatchResult) MatchResult {
	return MatchResult{
		RoomID:     string(m.RoomID),
		Winner:     string(m.Winner),
		WinnerName: m.WinnerName,
		Loser:      string(m.Loser),
		LoserName:  m.LoserName,
		Shots:      m.Shots,
		FinishedAt: m.FinishedAt,
	}
}

// ResultList is the response for GET /api/v1/results
type ResultList struct {
	Results []MatchResult `json:"results"`
}

// Fleet is a placed fleet ready to be sent in a JOIN_GAME command
type Fleet struct {
	Player model.PlayerSnapshot `json:"player"`
	Grid   model.GridSnapshot   `json:"grid"`
}

// FleetFromModel converts a placed player and grid
func FleetFromModel(p *model.Player, g *model.Grid) Fleet {
	return Fleet{
		Player: p.Snapshot(),
		Grid:   g.Snapshot(),
	}
}

// Bot describes a computer opponent seated in a room. Its fleet stays hidden.
type Bot struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// BotFromModel converts a seated bot player
func BotFromModel(roomID model.RoomID, p *model.Player) Bot {
	return Bot{
		RoomID:   string(roomID),
		PlayerID: string(p.ID),
		Name:     p.Name,
	}
}
