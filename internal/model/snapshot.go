package model

import "fmt"

// ShipSnapshot is the serialized form of a ship
type ShipSnapshot struct {
	ID          ShipID       `json:"id"`
	Length      int          `json:"length"`
	Coordinates []Coordinate `json:"coordinates"`
	Damage      []Coordinate `json:"damage"`
}

// PlayerSnapshot is the serialized form of a player
type PlayerSnapshot struct {
	ID                 PlayerID       `json:"id"`
	Name               string         `json:"name"`
	Ships              []ShipSnapshot `json:"ships"`
	GuessedCoordinates []Coordinate   `json:"guessedCoordinates"`
}

// SquareSnapshot is the serialized form of a grid square.
// HasShip is nil when occupancy is hidden from the viewer.
type SquareSnapshot struct {
	Coordinate Coordinate `json:"coordinate"`
	HasShip    *bool      `json:"hasShip,omitempty"`
	ShipID     ShipID     `json:"shipId,omitempty"`
	Marked     bool       `json:"marked"`
}

// GridSnapshot is the serialized form of a grid, keyed by Coordinate.Key
type GridSnapshot struct {
	ID      GridID                    `json:"id"`
	Squares map[string]SquareSnapshot `json:"squares"`
}

// GameSnapshot is the serialized form of a whole game
type GameSnapshot struct {
	Phase             GamePhase                   `json:"phase"`
	CurrentPlayerTurn int                         `json:"currentPlayerTurn"`
	PlayerOrder       []PlayerID                  `json:"playerOrder"`
	Players           map[PlayerID]PlayerSnapshot `json:"players"`
	Grids             map[GridID]GridSnapshot     `json:"grids"`
	PlayerIDToGridID  map[PlayerID]GridID         `json:"playerIdToGridId"`
	Winner            PlayerID                    `json:"winner,omitempty"`
}

// Snapshot returns the complete, unredacted state of the game
func (g *Game) Snapshot() GameSnapshot {
	return g.snapshot(func(PlayerID) bool { return true })
}

// SnapshotFor returns the state as the given player may see it.
// Ship positions on other players' grids are hidden until hit, and other fleets only
// reveal a ship's coordinates once it is sunk. An empty viewer sees every fleet redacted.
func (g *Game) SnapshotFor(viewer PlayerID) GameSnapshot {
	return g.snapshot(func(owner PlayerID) bool { return viewer != "" && owner == viewer })
}

func (g *Game) snapshot(visible func(owner PlayerID) bool) GameSnapshot {
	s := GameSnapshot{
		Phase:             g.Phase,
		CurrentPlayerTurn: g.CurrentPlayerTurn,
		PlayerOrder:       append([]PlayerID{}, g.playerOrder...),
		Players:           make(map[PlayerID]PlayerSnapshot, len(g.players)),
		Grids:             make(map[GridID]GridSnapshot, len(g.grids)),
		PlayerIDToGridID:  make(map[PlayerID]GridID, len(g.playerIDToGridID)),
		Winner:            g.Winner,
	}

	for id, player := range g.players {
		s.Players[id] = player.snapshot(visible(id))
	}
	for pid, gid := range g.playerIDToGridID {
		s.PlayerIDToGridID[pid] = gid
	}
	for gid, grid := range g.grids {
		s.Grids[gid] = grid.snapshot(visible(g.OwnerOfGrid(gid)))
	}
	return s
}

// Snapshot returns the complete state of the player
func (p *Player) Snapshot() PlayerSnapshot {
	return p.snapshot(true)
}

func (p *Player) snapshot(reveal bool) PlayerSnapshot {
	s := PlayerSnapshot{
		ID:                 p.ID,
		Name:               p.Name,
		Ships:              make([]ShipSnapshot, 0, len(p.Ships)),
		GuessedCoordinates: copyCoordinates(p.GuessedCoordinates),
	}
	for _, ship := range p.Ships {
		ss := ShipSnapshot{
			ID:          ship.ID,
			Length:      ship.Length,
			Coordinates: []Coordinate{},
			Damage:      copyCoordinates(ship.Damage),
		}
		if reveal || ship.IsSunk() {
			ss.Coordinates = copyCoordinates(ship.Coordinates)
		}
		s.Ships = append(s.Ships, ss)
	}
	return s
}

// Snapshot returns the complete state of the grid
func (g *Grid) Snapshot() GridSnapshot {
	return g.snapshot(true)
}

func (g *Grid) snapshot(reveal bool) GridSnapshot {
	s := GridSnapshot{
		ID:      g.ID,
		Squares: make(map[string]SquareSnapshot, len(g.squares)),
	}
	for key, sq := range g.squares {
		ss := SquareSnapshot{
			Coordinate: sq.Coordinate,
			Marked:     sq.Marked,
		}
		if reveal || sq.Marked {
			hasShip := sq.HasShip()
			ss.HasShip = &hasShip
			ss.ShipID = sq.ShipID
		}
		s.Squares[key] = ss
	}
	return s
}

// PlayerFromSnapshot rebuilds a player, validating every field
func PlayerFromSnapshot(s PlayerSnapshot) (*Player, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: player id is empty", ErrInvalidSnapshot)
	}

	player := &Player{
		ID:                 s.ID,
		Name:               s.Name,
		Ships:              make([]*Ship, 0, len(s.Ships)),
		GuessedCoordinates: []Coordinate{},
	}

	seen := make(map[ShipID]bool, len(s.Ships))
	for _, ss := range s.Ships {
		ship, err := shipFromSnapshot(ss)
		if err != nil {
			return nil, err
		}
		if seen[ship.ID] {
			return nil, fmt.Errorf("%w: duplicate ship id %s", ErrInvalidSnapshot, ship.ID)
		}
		seen[ship.ID] = true
		player.Ships = append(player.Ships, ship)
	}

	for _, c := range s.GuessedCoordinates {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: guessed coordinate %d,%d out of range", ErrInvalidSnapshot, c.Row, c.Col)
		}
		if player.HasGuessed(c) {
			return nil, fmt.Errorf("%w: duplicate guess %s", ErrInvalidSnapshot, c)
		}
		player.GuessedCoordinates = append(player.GuessedCoordinates, c)
	}
	return player, nil
}

func shipFromSnapshot(s ShipSnapshot) (*Ship, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: ship id is empty", ErrInvalidSnapshot)
	}
	if s.Length < MinShipLength || s.Length > MaxShipLength {
		return nil, fmt.Errorf("%w: ship %s has length %d", ErrInvalidSnapshot, s.ID, s.Length)
	}
	if len(s.Coordinates) != 0 && len(s.Coordinates) != s.Length {
		return nil, fmt.Errorf("%w: ship %s has %d coordinates, want %d", ErrInvalidSnapshot, s.ID, len(s.Coordinates), s.Length)
	}

	ship := NewShip(s.ID, s.Length)
	for _, c := range s.Coordinates {
		if !c.IsValid() || ship.Occupies(c) {
			return nil, fmt.Errorf("%w: ship %s has bad coordinate %d,%d", ErrInvalidSnapshot, s.ID, c.Row, c.Col)
		}
		ship.Coordinates = append(ship.Coordinates, c)
	}
	for _, c := range s.Damage {
		if !ship.Occupies(c) || ship.IsDamagedAt(c) {
			return nil, fmt.Errorf("%w: ship %s has bad damage at %d,%d", ErrInvalidSnapshot, s.ID, c.Row, c.Col)
		}
		ship.Damage = append(ship.Damage, c)
	}
	return ship, nil
}

// GridFromSnapshot rebuilds a grid. All squares must be present and keyed by their coordinate.
// Missing occupancy is inferred from the ship id.
func GridFromSnapshot(s GridSnapshot) (*Grid, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: grid id is empty", ErrInvalidSnapshot)
	}
	if len(s.Squares) != GridSize*GridSize {
		return nil, fmt.Errorf("%w: grid %s has %d squares", ErrInvalidSnapshot, s.ID, len(s.Squares))
	}

	grid := NewGrid(s.ID)
	for key, ss := range s.Squares {
		if !ss.Coordinate.IsValid() || ss.Coordinate.Key() != key {
			return nil, fmt.Errorf("%w: square key %q does not match its coordinate", ErrInvalidSnapshot, key)
		}
		if ss.HasShip != nil && *ss.HasShip != (ss.ShipID != "") {
			return nil, fmt.Errorf("%w: square %s occupancy disagrees with ship id", ErrInvalidSnapshot, key)
		}
		sq := grid.Get(ss.Coordinate)
		sq.ShipID = ss.ShipID
		sq.Marked = ss.Marked
	}
	return grid, nil
}

// GameFromSnapshot rebuilds a game from a full snapshot, checking that players, grids
// and ships all agree with each other.
func GameFromSnapshot(s GameSnapshot) (*Game, error) {
	switch s.Phase {
	case GamePhaseWaiting, GamePhaseSetup, GamePhaseGuessing, GamePhaseEnd:
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidSnapshot, s.Phase)
	}
	if len(s.PlayerOrder) > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSnapshot, len(s.PlayerOrder))
	}
	if len(s.Players) != len(s.PlayerOrder) || len(s.Grids) != len(s.PlayerOrder) || len(s.PlayerIDToGridID) != len(s.PlayerOrder) {
		return nil, fmt.Errorf("%w: player, grid and mapping counts differ", ErrInvalidSnapshot)
	}
	if s.Phase == GamePhaseWaiting && len(s.PlayerOrder) == MaxPlayers {
		return nil, fmt.Errorf("%w: full game still waiting", ErrInvalidSnapshot)
	}
	if s.Phase != GamePhaseWaiting && len(s.PlayerOrder) != MaxPlayers {
		return nil, fmt.Errorf("%w: phase %s with %d players", ErrInvalidSnapshot, s.Phase, len(s.PlayerOrder))
	}
	if s.CurrentPlayerTurn < 0 || s.CurrentPlayerTurn >= MaxPlayers {
		return nil, fmt.Errorf("%w: current turn %d", ErrInvalidSnapshot, s.CurrentPlayerTurn)
	}

	game := NewGame()
	game.Phase = s.Phase
	game.CurrentPlayerTurn = s.CurrentPlayerTurn

	for _, pid := range s.PlayerOrder {
		if _, dup := game.players[pid]; dup {
			return nil, fmt.Errorf("%w: duplicate player %s", ErrInvalidSnapshot, pid)
		}
		ps, ok := s.Players[pid]
		if !ok || ps.ID != pid {
			return nil, fmt.Errorf("%w: player %s missing or mismatched", ErrInvalidSnapshot, pid)
		}
		player, err := PlayerFromSnapshot(ps)
		if err != nil {
			return nil, err
		}

		gid, ok := s.PlayerIDToGridID[pid]
		if !ok {
			return nil, fmt.Errorf("%w: player %s has no grid", ErrInvalidSnapshot, pid)
		}
		if _, taken := game.grids[gid]; taken {
			return nil, fmt.Errorf("%w: grid %s shared by two players", ErrInvalidSnapshot, gid)
		}
		gs, ok := s.Grids[gid]
		if !ok || gs.ID != gid {
			return nil, fmt.Errorf("%w: grid %s missing or mismatched", ErrInvalidSnapshot, gid)
		}
		grid, err := GridFromSnapshot(gs)
		if err != nil {
			return nil, err
		}
		if err := checkFleetOnGrid(player, grid); err != nil {
			return nil, err
		}

		game.players[pid] = player
		game.playerOrder = append(game.playerOrder, pid)
		game.grids[gid] = grid
		game.playerIDToGridID[pid] = gid
	}

	if s.Winner != "" {
		if _, ok := game.players[s.Winner]; !ok {
			return nil, fmt.Errorf("%w: winner %s is not a player", ErrInvalidSnapshot, s.Winner)
		}
		if s.Phase != GamePhaseEnd {
			return nil, fmt.Errorf("%w: winner set in phase %s", ErrInvalidSnapshot, s.Phase)
		}
		game.Winner = s.Winner
	}
	return game, nil
}

// checkFleetOnGrid verifies squares and ships reference each other consistently
func checkFleetOnGrid(player *Player, grid *Grid) error {
	for _, sq := range grid.Squares() {
		if !sq.HasShip() {
			continue
		}
		ship := player.Ship(sq.ShipID)
		if ship == nil || !ship.Occupies(sq.Coordinate) {
			return fmt.Errorf("%w: square %s references ship %s not in fleet of %s", ErrInvalidSnapshot, sq.Coordinate, sq.ShipID, player.ID)
		}
		if sq.Marked != ship.IsDamagedAt(sq.Coordinate) {
			return fmt.Errorf("%w: square %s mark disagrees with ship damage", ErrInvalidSnapshot, sq.Coordinate)
		}
	}
	for _, ship := range player.Ships {
		for _, c := range ship.Coordinates {
			if grid.Get(c).ShipID != ship.ID {
				return fmt.Errorf("%w: ship %s not on grid at %s", ErrInvalidSnapshot, ship.ID, c)
			}
		}
	}
	return nil
}

func copyCoordinates(coords []Coordinate) []Coordinate {
	result := make([]Coordinate, len(coords))
	copy(result, coords)
	return result
}
