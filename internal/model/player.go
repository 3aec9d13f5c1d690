package model

// PlayerID uniquely identifies a player within a room
type PlayerID string

// Player is a game participant together with their fleet and the shots they have taken
type Player struct {
	ID                 PlayerID
	Name               string
	Ships              []*Ship
	GuessedCoordinates []Coordinate
}

// NewPlayer creates a player with the standard unplaced fleet.
// shipIDs supplies one id per ship in StandardFleetLengths order.
func NewPlayer(id PlayerID, name string, shipIDs []ShipID) *Player {
	ships := make([]*Ship, 0, len(StandardFleetLengths))
	for i, length := range StandardFleetLengths {
		var shipID ShipID
		if i < len(shipIDs) {
			shipID = shipIDs[i]
		}
		ships = append(ships, NewShip(shipID, length))
	}
	return &Player{
		ID:                 id,
		Name:               name,
		Ships:              ships,
		GuessedCoordinates: []Coordinate{},
	}
}

// GuessCoordinate records a shot. Duplicates are ignored.
func (p *Player) GuessCoordinate(c Coordinate) {
	if p.HasGuessed(c) {
		return
	}
	p.GuessedCoordinates = append(p.GuessedCoordinates, c)
}

// HasGuessed returns true if the player has already shot at the coordinate
func (p *Player) HasGuessed(c Coordinate) bool {
	return containsCoordinate(p.GuessedCoordinates, c)
}

// AllShipsArePlaced returns true if the fleet is non-empty and every ship has a position
func (p *Player) AllShipsArePlaced() bool {
	if len(p.Ships) == 0 {
		return false
	}
	for _, ship := range p.Ships {
		if !ship.IsPlaced() {
			return false
		}
	}
	return true
}

// AllShipsAreSunk returns true if the fleet is non-empty and every ship is sunk
func (p *Player) AllShipsAreSunk() bool {
	if len(p.Ships) == 0 {
		return false
	}
	for _, ship := range p.Ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

// Ship looks up a ship in the fleet by id
func (p *Player) Ship(id ShipID) *Ship {
	for _, ship := range p.Ships {
		if ship.ID == id {
			return ship
		}
	}
	return nil
}

// ShipsRemaining counts ships that are still afloat
func (p *Player) ShipsRemaining() int {
	count := 0
	for _, ship := range p.Ships {
		if !ship.IsSunk() {
			count++
		}
	}
	return count
}

var _ ShipLookup = (*Player)(nil)
