package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newPlacedPlayer returns a player whose standard fleet is laid out along rows A-E from column 1
func newPlacedPlayer(t testing.TB, id PlayerID, gridID GridID) (*Player, *Grid) {
	t.Helper()

	shipIDs := make([]ShipID, len(StandardFleetLengths))
	for i := range shipIDs {
		shipIDs[i] = ShipID(fmt.Sprintf("%s-ship-%d", id, i))
	}
	player := NewPlayer(id, string(id), shipIDs)
	grid := NewGrid(gridID)
	for i, ship := range player.Ships {
		require.NoError(t, PlaceShip(grid, ship, Coordinate{Row: i + 1, Col: 1}, DirectionRight))
	}
	return player, grid
}

// fleetCoordinates lists every square occupied by the layout used in newPlacedPlayer
func fleetCoordinates() []Coordinate {
	var coords []Coordinate
	for i, length := range StandardFleetLengths {
		for col := 1; col <= length; col++ {
			coords = append(coords, Coordinate{Row: i + 1, Col: col})
		}
	}
	return coords
}
