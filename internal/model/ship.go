package model

import "fmt"

// ShipID uniquely identifies a ship
type ShipID string

const (
	MinShipLength = 2
	MaxShipLength = 5
)

// Ship is a single vessel of a fleet. Coordinates stay empty until the ship is placed.
type Ship struct {
	ID          ShipID
	Length      int
	Coordinates []Coordinate
	Damage      []Coordinate
}

// NewShip creates an unplaced ship
func NewShip(id ShipID, length int) *Ship {
	return &Ship{
		ID:          id,
		Length:      length,
		Coordinates: []Coordinate{},
		Damage:      []Coordinate{},
	}
}

// ClassName returns a display name for the ship based on its length
func (s *Ship) ClassName() string {
	switch s.Length {
	case 2:
		return "Destroyer"
	case 3:
		return "Cruiser"
	case 4:
		return "Battleship"
	case 5:
		return "Carrier"
	default:
		return "Ship"
	}
}

// SetCoordinates replaces the ship's placement. Geometry is validated by the placement code, not here.
func (s *Ship) SetCoordinates(coords []Coordinate) {
	s.Coordinates = make([]Coordinate, len(coords))
	copy(s.Coordinates, coords)
}

// ClearPlacement resets the ship so it can be placed again
func (s *Ship) ClearPlacement() {
	s.Coordinates = []Coordinate{}
	s.Damage = []Coordinate{}
}

// IsPlaced returns true once the ship has coordinates
func (s *Ship) IsPlaced() bool {
	return len(s.Coordinates) > 0
}

// Occupies returns true if the ship covers the coordinate
func (s *Ship) Occupies(c Coordinate) bool {
	return containsCoordinate(s.Coordinates, c)
}

// IsDamagedAt returns true if the ship has already been hit at the coordinate
func (s *Ship) IsDamagedAt(c Coordinate) bool {
	return containsCoordinate(s.Damage, c)
}

// TakeDamage registers a hit and reports whether the ship is now sunk
func (s *Ship) TakeDamage(c Coordinate) (bool, error) {
	if !s.Occupies(c) {
		return false, fmt.Errorf("%w: ship %s does not occupy %s", ErrInvalidDamage, s.ID, c)
	}
	if s.IsDamagedAt(c) {
		return false, fmt.Errorf("%w: ship %s already damaged at %s", ErrInvalidDamage, s.ID, c)
	}

	s.Damage = append(s.Damage, c)
	return s.IsSunk(), nil
}

// IsSunk returns true when every placed coordinate has been damaged
func (s *Ship) IsSunk() bool {
	return s.IsPlaced() && len(s.Damage) == s.Length
}
