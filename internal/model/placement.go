package model

import (
	"fmt"
	"strings"
)

// Direction is the way a ship extends from its origin square
type Direction int

const (
	DirectionUp Direction = iota
	DirectionRight
	DirectionDown
	DirectionLeft
)

// AllDirections lists every placement direction
var AllDirections = []Direction{DirectionUp, DirectionRight, DirectionDown, DirectionLeft}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionRight:
		return "right"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection accepts the names returned by String, case-insensitive
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirectionUp, nil
	case "right", "r":
		return DirectionRight, nil
	case "down", "d":
		return DirectionDown, nil
	case "left", "l":
		return DirectionLeft, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// delta returns the column and row step for the direction
func (d Direction) delta() (int, int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionRight:
		return 1, 0
	case DirectionDown:
		return 0, 1
	default:
		return -1, 0
	}
}

// ShipRun returns the contiguous run of coordinates a ship of the given length would occupy.
// Runs that leave the board are rejected rather than clamped.
func ShipRun(origin Coordinate, dir Direction, length int) ([]Coordinate, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: length %d", ErrOutOfBounds, length)
	}
	if !origin.IsValid() {
		return nil, fmt.Errorf("%w: origin %s", ErrOutOfBounds, origin)
	}

	dc, dr := dir.delta()
	run := make([]Coordinate, 0, length)
	for i := 0; i < length; i++ {
		c := Coordinate{Row: origin.Row + dr*i, Col: origin.Col + dc*i}
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: %s from %s with length %d", ErrOutOfBounds, dir, origin, length)
		}
		run = append(run, c)
	}
	return run, nil
}

// PlaceShip puts the ship on the grid starting at origin. If the ship is already placed it is moved.
// On failure both the grid and the ship are left as they were.
func PlaceShip(grid *Grid, ship *Ship, origin Coordinate, dir Direction) error {
	if ship.ID == "" {
		return fmt.Errorf("%w: ship has no id", ErrInvalidFleet)
	}

	run, err := ShipRun(origin, dir, ship.Length)
	if err != nil {
		return err
	}

	for _, c := range run {
		sq := grid.Get(c)
		if sq == nil {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
		}
		if sq.HasShip() && sq.ShipID != ship.ID {
			return fmt.Errorf("%w: %s already holds ship %s", ErrShipOverlap, c, sq.ShipID)
		}
	}

	for _, c := range ship.Coordinates {
		if sq := grid.Get(c); sq != nil && sq.ShipID == ship.ID {
			sq.RemoveShipPart()
		}
	}
	for _, c := range run {
		grid.Get(c).PlaceShipPart(ship.ID)
	}
	ship.ClearPlacement()
	ship.SetCoordinates(run)
	return nil
}

// RemoveShip lifts the ship off the grid so it can be placed again
func RemoveShip(grid *Grid, ship *Ship) {
	for _, c := range ship.Coordinates {
		if sq := grid.Get(c); sq != nil && sq.ShipID == ship.ID {
			sq.RemoveShipPart()
		}
	}
	ship.ClearPlacement()
}
