package model

import "fmt"

// ShipLookup resolves a ship by id. A player's fleet implements it.
type ShipLookup interface {
	Ship(id ShipID) *Ship
}

// GridSquare is one cell of a grid. It refers to its occupying ship by id only.
type GridSquare struct {
	Coordinate Coordinate
	ShipID     ShipID // empty when unoccupied
	Marked     bool
}

// HasShip returns true if a ship occupies the square
func (s *GridSquare) HasShip() bool {
	return s.ShipID != ""
}

// PlaceShipPart marks the square as occupied by the ship. Only used during setup.
func (s *GridSquare) PlaceShipPart(id ShipID) {
	s.ShipID = id
}

// RemoveShipPart clears the occupying ship
func (s *GridSquare) RemoveShipPart() {
	s.ShipID = ""
}

// Mark records a shot on the square and reports a hit.
// Marking an already marked square is a no-op that reports a miss and never damages twice.
func (s *GridSquare) Mark(ships ShipLookup) (bool, error) {
	if s.Marked {
		return false, nil
	}

	if !s.HasShip() {
		s.Marked = true
		return false, nil
	}

	var ship *Ship
	if ships != nil {
		ship = ships.Ship(s.ShipID)
	}
	if ship == nil {
		return false, fmt.Errorf("%w: square %s references unknown ship %s", ErrInvalidDamage, s.Coordinate, s.ShipID)
	}
	if _, err := ship.TakeDamage(s.Coordinate); err != nil {
		return false, err
	}

	s.Marked = true
	return true, nil
}
