package fleet

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/battleship-go/internal/dependencies/ids"
	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/model"
)

// randomAttempts bounds the random tries per ship before falling back to a scan of the board
const randomAttempts = 200

// Service builds fleets and lays them out on grids
type Service struct {
	ids    ids.Generator
	random random.Random
	logger *slog.Logger
}

// New creates a new fleet Service
func New(idGen ids.Generator, rng random.Random, logger *slog.Logger) *Service {
	return &Service{
		ids:    idGen,
		random: rng,
		logger: logger,
	}
}

// NewFleet creates a player with fresh ids and the standard unplaced fleet, plus an empty grid
func (s *Service) NewFleet(name string) (*model.Player, *model.Grid) {
	shipIDs := make([]model.ShipID, len(model.StandardFleetLengths))
	for i := range shipIDs {
		shipIDs[i] = model.ShipID(s.ids.NewID())
	}
	player := model.NewPlayer(model.PlayerID(s.ids.NewID()), name, shipIDs)
	grid := model.NewGrid(model.GridID(s.ids.NewID()))
	return player, grid
}

// RandomFleet creates a player whose whole fleet is placed at random valid positions
func (s *Service) RandomFleet(name string) (*model.Player, *model.Grid, error) {
	player, grid := s.NewFleet(name)
	if err := s.PlaceRandomly(player, grid); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("random fleet generated",
		slog.String("player_id", string(player.ID)),
		slog.String("grid_id", string(grid.ID)))
	return player, grid, nil
}

// PlaceRandomly places every unplaced ship of the player on the grid.
// Already placed ships are left where they are.
func (s *Service) PlaceRandomly(player *model.Player, grid *model.Grid) error {
	for _, ship := range player.Ships {
		if ship.IsPlaced() {
			continue
		}
		if err := s.placeShip(grid, ship); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) placeShip(grid *model.Grid, ship *model.Ship) error {
	for i := 0; i < randomAttempts; i++ {
		origin := model.Coordinate{
			Row: s.random.Intn(model.GridSize) + model.MinIndex,
			Col: s.random.Intn(model.GridSize) + model.MinIndex,
		}
		dir := model.AllDirections[s.random.Intn(len(model.AllDirections))]

		err := model.PlaceShip(grid, ship, origin, dir)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
	}

	// Crowded boards can defeat random sampling, so take the first spot that fits
	for _, origin := range model.AllCoordinates() {
		for _, dir := range model.AllDirections {
			err := model.PlaceShip(grid, ship, origin, dir)
			if err == nil {
				return nil
			}
			if !isRetryable(err) {
				return err
			}
		}
	}
	return fmt.Errorf("%w: no room for ship %s of length %d", model.ErrInvalidFleet, ship.ID, ship.Length)
}

func isRetryable(err error) bool {
	return errors.Is(err, model.ErrOutOfBounds) || errors.Is(err, model.ErrShipOverlap)
}

// Interface for dependency injection
type ServiceInterface interface {
	NewFleet(name string) (*model.Player, *model.Grid)
	RandomFleet(name string) (*model.Player, *model.Grid, error)
	PlaceRandomly(player *model.Player, grid *model.Grid) error
}

var _ ServiceInterface = (*Service)(nil)
