package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipRunDirections(t *testing.T) {
	origin := Coordinate{Row: 5, Col: 5}

	tests := []struct {
		dir  Direction
		want []Coordinate
	}{
		{DirectionUp, []Coordinate{{Row: 5, Col: 5}, {Row: 4, Col: 5}, {Row: 3, Col: 5}}},
		{DirectionRight, []Coordinate{{Row: 5, Col: 5}, {Row: 5, Col: 6}, {Row: 5, Col: 7}}},
		{DirectionDown, []Coordinate{{Row: 5, Col: 5}, {Row: 6, Col: 5}, {Row: 7, Col: 5}}},
		{DirectionLeft, []Coordinate{{Row: 5, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			run, err := ShipRun(origin, tt.dir, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, run)
		})
	}
}

func TestShipRunRejectsLeavingBoard(t *testing.T) {
	_, err := ShipRun(Coordinate{Row: 1, Col: 9}, DirectionRight, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = ShipRun(Coordinate{Row: 2, Col: 1}, DirectionUp, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestPlaceShipOutOfBoundsLeavesStateUnchanged(t *testing.T) {
	grid := NewGrid("grid-a")
	ship := NewShip("ship-1", 5)

	err := PlaceShip(grid, ship, Coordinate{Row: 1, Col: 8}, DirectionRight)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, ship.IsPlaced())
	for _, sq := range grid.Squares() {
		assert.False(t, sq.HasShip())
	}
}

func TestPlaceShipOverlapLeavesStateUnchanged(t *testing.T) {
	grid := NewGrid("grid-a")
	first := NewShip("ship-1", 3)
	second := NewShip("ship-2", 3)
	require.NoError(t, PlaceShip(grid, first, Coordinate{Row: 3, Col: 3}, DirectionRight))

	err := PlaceShip(grid, second, Coordinate{Row: 1, Col: 4}, DirectionDown)
	assert.ErrorIs(t, err, ErrShipOverlap)
	assert.False(t, second.IsPlaced())
	assert.Equal(t, ShipID("ship-1"), grid.Get(Coordinate{Row: 3, Col: 4}).ShipID)
	assert.False(t, grid.Get(Coordinate{Row: 1, Col: 4}).HasShip())
}

func TestPlaceShipMovesPlacedShip(t *testing.T) {
	grid := NewGrid("grid-a")
	ship := NewShip("ship-1", 3)
	require.NoError(t, PlaceShip(grid, ship, Coordinate{Row: 1, Col: 1}, DirectionRight))

	// overlapping its own old position is allowed
	require.NoError(t, PlaceShip(grid, ship, Coordinate{Row: 1, Col: 2}, DirectionDown))

	assert.False(t, grid.Get(Coordinate{Row: 1, Col: 1}).HasShip())
	assert.False(t, grid.Get(Coordinate{Row: 1, Col: 3}).HasShip())
	assert.Equal(t, []Coordinate{{Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}}, ship.Coordinates)
	assert.Equal(t, []Coordinate{{Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}}, grid.OccupiedBy("ship-1"))
}

func TestPlaceShipFailedMoveKeepsOldPosition(t *testing.T) {
	grid := NewGrid("grid-a")
	ship := NewShip("ship-1", 3)
	require.NoError(t, PlaceShip(grid, ship, Coordinate{Row: 1, Col: 1}, DirectionRight))

	err := PlaceShip(grid, ship, Coordinate{Row: 10, Col: 10}, DirectionDown)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, []Coordinate{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}, ship.Coordinates)
	assert.Len(t, grid.OccupiedBy("ship-1"), 3)
}

func TestRemoveShip(t *testing.T) {
	grid := NewGrid("grid-a")
	ship := NewShip("ship-1", 2)
	require.NoError(t, PlaceShip(grid, ship, Coordinate{Row: 4, Col: 4}, DirectionLeft))

	RemoveShip(grid, ship)
	assert.False(t, ship.IsPlaced())
	assert.Empty(t, grid.OccupiedBy("ship-1"))
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("Down")
	require.NoError(t, err)
	assert.Equal(t, DirectionDown, dir)

	dir, err = ParseDirection("l")
	require.NoError(t, err)
	assert.Equal(t, DirectionLeft, dir)

	_, err = ParseDirection("diagonal")
	assert.Error(t, err)
}

func TestGridRender(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	_, err := grid.Get(Coordinate{Row: 1, Col: 1}).Mark(player)
	require.NoError(t, err)
	_, err = grid.Get(Coordinate{Row: 10, Col: 10}).Mark(player)
	require.NoError(t, err)

	revealed := strings.Split(grid.Render(true), "\n")
	assert.Equal(t, "     1  2  3  4  5  6  7  8  9 10", revealed[0])
	assert.Equal(t, "A |  X  S  ~  ~  ~  ~  ~  ~  ~  ~", revealed[1])
	assert.Equal(t, "J |  ~  ~  ~  ~  ~  ~  ~  ~  ~  M", revealed[10])

	hidden := strings.Split(grid.Render(false), "\n")
	assert.Equal(t, "A |  X  ~  ~  ~  ~  ~  ~  ~  ~  ~", hidden[1])
}
