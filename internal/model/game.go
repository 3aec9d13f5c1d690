package model

import "fmt"

// GamePhase represents the current phase of a game. Phases only move forward.
type GamePhase string

const (
	GamePhaseWaiting  GamePhase = "waiting"  // Fewer than two players
	GamePhaseSetup    GamePhase = "setup"    // Both seats filled, waiting for start
	GamePhaseGuessing GamePhase = "guessing" // Players take turns firing
	GamePhaseEnd      GamePhase = "end"      // A fleet has been sunk
)

// MaxPlayers is the number of seats in a game
const MaxPlayers = 2

// ShotResult describes the outcome of a single shot
type ShotResult struct {
	Hit       bool
	Sunk      bool
	ShipID    ShipID // set only when a ship was hit
	FleetSunk bool
}

// Game is the authoritative state of one match
type Game struct {
	Phase             GamePhase
	CurrentPlayerTurn int // index into the join order
	Winner            PlayerID

	players          map[PlayerID]*Player
	playerOrder      []PlayerID
	grids            map[GridID]*Grid
	playerIDToGridID map[PlayerID]GridID
}

// NewGame creates an empty game in the waiting phase
func NewGame() *Game {
	return &Game{
		Phase:            GamePhaseWaiting,
		players:          make(map[PlayerID]*Player),
		playerOrder:      make([]PlayerID, 0, MaxPlayers),
		grids:            make(map[GridID]*Grid),
		playerIDToGridID: make(map[PlayerID]GridID),
	}
}

// Started returns true once the game has left setup
func (g *Game) Started() bool {
	return g.Phase == GamePhaseGuessing || g.Phase == GamePhaseEnd
}

// AddPlayer seats a player with their pre-placed grid
func (g *Game) AddPlayer(player *Player, grid *Grid) error {
	if g.Started() {
		return ErrGameAlreadyStarted
	}
	if len(g.playerOrder) >= MaxPlayers {
		return ErrRoomFull
	}
	if player == nil || grid == nil {
		return fmt.Errorf("%w: missing player or grid", ErrInvalidFleet)
	}
	if _, exists := g.players[player.ID]; exists {
		return fmt.Errorf("%w: player %s", ErrPlayerAlreadyJoined, player.ID)
	}
	if _, exists := g.grids[grid.ID]; exists {
		return fmt.Errorf("%w: grid %s", ErrPlayerAlreadyJoined, grid.ID)
	}
	if err := ValidateFleet(player, grid); err != nil {
		return err
	}

	g.players[player.ID] = player
	g.playerOrder = append(g.playerOrder, player.ID)
	g.grids[grid.ID] = grid
	g.playerIDToGridID[player.ID] = grid.ID

	if len(g.playerOrder) == MaxPlayers {
		g.Phase = GamePhaseSetup
	}
	return nil
}

// RemovePlayer frees a seat before the game has started
func (g *Game) RemovePlayer(id PlayerID) error {
	if g.Started() {
		return ErrGameAlreadyStarted
	}
	if _, ok := g.players[id]; !ok {
		return ErrUnknownPlayer
	}

	delete(g.grids, g.playerIDToGridID[id])
	delete(g.playerIDToGridID, id)
	delete(g.players, id)
	for i, pid := range g.playerOrder {
		if pid == id {
			g.playerOrder = append(g.playerOrder[:i], g.playerOrder[i+1:]...)
			break
		}
	}

	g.Phase = GamePhaseWaiting
	return nil
}

// StartGame moves a full game into the guessing phase. The first joined player fires first.
func (g *Game) StartGame() error {
	if g.Started() {
		return ErrGameAlreadyStarted
	}
	if len(g.playerOrder) < MaxPlayers {
		return ErrNotEnoughPlayers
	}

	g.Phase = GamePhaseGuessing
	g.CurrentPlayerTurn = 0
	return nil
}

// GridSquareClicked resolves a shot by playerID at coordinate c on gridID.
// The turn is not advanced here; callers follow up with EndCurrentTurn.
func (g *Game) GridSquareClicked(playerID PlayerID, gridID GridID, c Coordinate) (ShotResult, error) {
	if g.Phase != GamePhaseGuessing {
		return ShotResult{}, fmt.Errorf("%w: phase is %s", ErrWrongPhase, g.Phase)
	}

	player, ok := g.players[playerID]
	if !ok {
		return ShotResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	grid, ok := g.grids[gridID]
	if !ok {
		return ShotResult{}, fmt.Errorf("%w: %s", ErrUnknownGrid, gridID)
	}
	if !c.IsValid() {
		return ShotResult{}, fmt.Errorf("%w: row %d col %d", ErrInvalidCoordinate, c.Row, c.Col)
	}
	if !g.IsPlayerTurn(playerID) {
		return ShotResult{}, ErrNotPlayerTurn
	}
	if g.playerIDToGridID[playerID] == gridID {
		return ShotResult{}, ErrSelfTarget
	}

	owner := g.players[g.OwnerOfGrid(gridID)]
	square := grid.Get(c)
	if square.Marked {
		return ShotResult{}, fmt.Errorf("%w: %s", ErrAlreadyGuessed, c)
	}

	hit, err := square.Mark(owner)
	if err != nil {
		return ShotResult{}, err
	}
	player.GuessCoordinate(c)

	result := ShotResult{Hit: hit}
	if hit {
		result.ShipID = square.ShipID
		if ship := owner.Ship(square.ShipID); ship != nil {
			result.Sunk = ship.IsSunk()
		}
		result.FleetSunk = owner.AllShipsAreSunk()
	}
	return result, nil
}

// EndCurrentTurn passes the turn to the other player
func (g *Game) EndCurrentTurn() {
	g.CurrentPlayerTurn = (g.CurrentPlayerTurn + 1) % MaxPlayers
}

// CheckForWinner ends the game once a fleet is entirely sunk and reports the winner
func (g *Game) CheckForWinner() (PlayerID, bool) {
	if g.Phase == GamePhaseEnd {
		return g.Winner, g.Winner != ""
	}
	if g.Phase != GamePhaseGuessing {
		return "", false
	}

	for _, id := range g.playerOrder {
		if g.players[id].AllShipsAreSunk() {
			g.Phase = GamePhaseEnd
			g.Winner = g.opponentOf(id)
			return g.Winner, true
		}
	}
	return "", false
}

// IsPlayerTurn returns true if it is the given player's turn to fire
func (g *Game) IsPlayerTurn(id PlayerID) bool {
	current := g.CurrentPlayer()
	return current != nil && current.ID == id
}

// CurrentPlayer returns the player whose turn it is, or nil if the seat is empty
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentPlayerTurn < 0 || g.CurrentPlayerTurn >= len(g.playerOrder) {
		return nil
	}
	return g.players[g.playerOrder[g.CurrentPlayerTurn]]
}

// Players returns the players in join order
func (g *Game) Players() []*Player {
	result := make([]*Player, 0, len(g.playerOrder))
	for _, id := range g.playerOrder {
		result = append(result, g.players[id])
	}
	return result
}

// PlayerCount returns the number of seated players
func (g *Game) PlayerCount() int {
	return len(g.playerOrder)
}

// Player looks up a player by id
func (g *Game) Player(id PlayerID) *Player {
	return g.players[id]
}

// Grid looks up a grid by id
func (g *Game) Grid(id GridID) *Grid {
	return g.grids[id]
}

// GridFor returns the grid owned by the player
func (g *Game) GridFor(id PlayerID) *Grid {
	gridID, ok := g.playerIDToGridID[id]
	if !ok {
		return nil
	}
	return g.grids[gridID]
}

// GridForOpponent returns the grid the player fires at
func (g *Game) GridForOpponent(id PlayerID) *Grid {
	opponent := g.opponentOf(id)
	if opponent == "" {
		return nil
	}
	return g.GridFor(opponent)
}

// OwnerOfGrid returns the player owning the grid, or empty if none
func (g *Game) OwnerOfGrid(gridID GridID) PlayerID {
	for pid, gid := range g.playerIDToGridID {
		if gid == gridID {
			return pid
		}
	}
	return ""
}

func (g *Game) opponentOf(id PlayerID) PlayerID {
	if _, ok := g.players[id]; !ok {
		return ""
	}
	for _, pid := range g.playerOrder {
		if pid != id {
			return pid
		}
	}
	return ""
}
