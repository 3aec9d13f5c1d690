package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFleetAcceptsPlacedStandardFleet(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	assert.NoError(t, ValidateFleet(player, grid))
	assert.True(t, player.AllShipsArePlaced())
}

func TestValidateFleetRejectsUnplacedShip(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	RemoveShip(grid, player.Ships[2])

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
	assert.False(t, player.AllShipsArePlaced())
}

func TestValidateFleetRejectsWrongComposition(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	extra := NewShip("extra", 2)
	require.NoError(t, PlaceShip(grid, extra, Coordinate{Row: 9, Col: 1}, DirectionRight))
	player.Ships = append(player.Ships, extra)

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestValidateFleetRejectsDuplicateShipIDs(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	player.Ships[1].ID = player.Ships[2].ID

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestValidateFleetRejectsBentShip(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	ship := player.Ships[1]
	RemoveShip(grid, ship)
	bent := []Coordinate{{Row: 8, Col: 1}, {Row: 8, Col: 2}, {Row: 9, Col: 2}}
	for _, c := range bent {
		grid.Get(c).PlaceShipPart(ship.ID)
	}
	ship.SetCoordinates(bent)

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestValidateFleetRejectsStrayOccupiedSquare(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	grid.Get(Coordinate{Row: 10, Col: 10}).PlaceShipPart(player.Ships[0].ID)

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestValidateFleetRejectsMarkedGrid(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	grid.Get(Coordinate{Row: 10, Col: 10}).Marked = true

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestValidateFleetRejectsPriorGuesses(t *testing.T) {
	player, grid := newPlacedPlayer(t, "alice", "grid-a")
	player.GuessCoordinate(Coordinate{Row: 1, Col: 1})

	assert.ErrorIs(t, ValidateFleet(player, grid), ErrInvalidFleet)
}

func TestGuessCoordinateIgnoresDuplicates(t *testing.T) {
	player := NewPlayer("alice", "Alice", nil)
	player.GuessCoordinate(Coordinate{Row: 2, Col: 3})
	player.GuessCoordinate(Coordinate{Row: 2, Col: 3})

	assert.Len(t, player.GuessedCoordinates, 1)
}

func TestEmptyFleetIsNeitherPlacedNorSunk(t *testing.T) {
	player := &Player{ID: "alice"}
	assert.False(t, player.AllShipsArePlaced())
	assert.False(t, player.AllShipsAreSunk())
}

func TestFleetSunkOnlyWithEveryDamageEntry(t *testing.T) {
	sinkAll := func(player *Player) {
		for _, ship := range player.Ships {
			ship.Damage = append([]Coordinate{}, ship.Coordinates...)
		}
	}

	player, _ := newPlacedPlayer(t, "alice", "grid-a")
	sinkAll(player)
	require.True(t, player.AllShipsAreSunk())

	for i := range player.Ships {
		for j := 0; j < player.Ships[i].Length; j++ {
			t.Run(fmt.Sprintf("ship %d without damage %d", i, j), func(t *testing.T) {
				sinkAll(player)
				ship := player.Ships[i]
				ship.Damage = append(append([]Coordinate{}, ship.Damage[:j]...), ship.Damage[j+1:]...)

				assert.False(t, ship.IsSunk())
				assert.False(t, player.AllShipsAreSunk())
			})
		}
	}
}
