package model

import (
	"fmt"
	"slices"
)

// StandardFleetLengths is the composition every player's fleet must have
var StandardFleetLengths = []int{2, 3, 3, 4, 5}

// ValidateFleet checks that a player and grid describe a legal, untouched setup:
// the standard fleet, fully placed on straight in-bounds runs, with grid occupancy
// matching the ships exactly and no shots taken yet.
func ValidateFleet(player *Player, grid *Grid) error {
	if player == nil || grid == nil {
		return fmt.Errorf("%w: missing player or grid", ErrInvalidFleet)
	}
	if player.ID == "" {
		return fmt.Errorf("%w: player has no id", ErrInvalidFleet)
	}
	if grid.ID == "" {
		return fmt.Errorf("%w: grid has no id", ErrInvalidFleet)
	}

	lengths := make([]int, 0, len(player.Ships))
	seen := make(map[ShipID]bool, len(player.Ships))
	for _, ship := range player.Ships {
		if ship == nil || ship.ID == "" {
			return fmt.Errorf("%w: ship without id", ErrInvalidFleet)
		}
		if seen[ship.ID] {
			return fmt.Errorf("%w: duplicate ship id %s", ErrInvalidFleet, ship.ID)
		}
		seen[ship.ID] = true
		lengths = append(lengths, ship.Length)
	}
	slices.Sort(lengths)
	if !slices.Equal(lengths, StandardFleetLengths) {
		return fmt.Errorf("%w: fleet lengths %v, want %v", ErrInvalidFleet, lengths, StandardFleetLengths)
	}

	occupied := 0
	for _, ship := range player.Ships {
		if len(ship.Coordinates) != ship.Length {
			return fmt.Errorf("%w: ship %s covers %d squares, want %d", ErrInvalidFleet, ship.ID, len(ship.Coordinates), ship.Length)
		}
		if !isStraightRun(ship.Coordinates) {
			return fmt.Errorf("%w: ship %s is not a straight run", ErrInvalidFleet, ship.ID)
		}
		if len(ship.Damage) > 0 {
			return fmt.Errorf("%w: ship %s is already damaged", ErrInvalidFleet, ship.ID)
		}
		for _, c := range ship.Coordinates {
			sq := grid.Get(c)
			if sq == nil || sq.ShipID != ship.ID {
				return fmt.Errorf("%w: grid does not hold ship %s at %s", ErrInvalidFleet, ship.ID, c)
			}
		}
		occupied += ship.Length
	}

	for _, sq := range grid.Squares() {
		if sq.Marked {
			return fmt.Errorf("%w: square %s already marked", ErrInvalidFleet, sq.Coordinate)
		}
		if !sq.HasShip() {
			continue
		}
		occupied--
	}
	if occupied != 0 {
		return fmt.Errorf("%w: grid occupancy does not match fleet", ErrInvalidFleet)
	}

	if len(player.GuessedCoordinates) > 0 {
		return fmt.Errorf("%w: player has already guessed", ErrInvalidFleet)
	}
	return nil
}

// isStraightRun reports whether coords are in-bounds, distinct and form one contiguous
// horizontal or vertical line, in any order.
func isStraightRun(coords []Coordinate) bool {
	if len(coords) == 0 {
		return false
	}
	for _, c := range coords {
		if !c.IsValid() {
			return false
		}
	}

	sameRow, sameCol := true, true
	for _, c := range coords[1:] {
		if c.Row != coords[0].Row {
			sameRow = false
		}
		if c.Col != coords[0].Col {
			sameCol = false
		}
	}
	if !sameRow && !sameCol {
		return false
	}

	axis := make([]int, 0, len(coords))
	for _, c := range coords {
		if sameRow {
			axis = append(axis, c.Col)
		} else {
			axis = append(axis, c.Row)
		}
	}
	slices.Sort(axis)
	for i := 1; i < len(axis); i++ {
		if axis[i] != axis[i-1]+1 {
			return false
		}
	}
	return true
}
