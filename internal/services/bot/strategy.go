package bot

import (
	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/model"
)

// Strategy names
const (
	StrategyRandom = "random"
	StrategyHunt   = "hunt"

	DefaultStrategy = StrategyHunt
)

// Strategy defines how a bot chooses where to fire.
// It sees the opponent's grid and fleet exactly as the coordinator shows them to the bot.
type Strategy interface {
	// ChooseTarget selects an unmarked square, or reports false when none is left
	ChooseTarget(grid model.GridSnapshot, fleet model.PlayerSnapshot) (model.Coordinate, bool)
}

// DefaultStrategies returns every built-in strategy keyed by name
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		StrategyRandom: NewRandomStrategy(rnd),
		StrategyHunt:   NewHuntStrategy(rnd),
	}
}

// RandomStrategy fires at any unmarked square
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseTarget picks a random unmarked square
func (s *RandomStrategy) ChooseTarget(grid model.GridSnapshot, _ model.PlayerSnapshot) (model.Coordinate, bool) {
	return pick(s.random, unmarked(grid))
}

// HuntStrategy searches on a checkerboard until it scores a hit, then works the
// squares around every hit whose ship is still afloat.
type HuntStrategy struct {
	random random.Random
}

// NewHuntStrategy creates a new HuntStrategy
func NewHuntStrategy(rnd random.Random) *HuntStrategy {
	return &HuntStrategy{random: rnd}
}

// ChooseTarget prefers squares next to open hits, then checkerboard squares
func (s *HuntStrategy) ChooseTarget(grid model.GridSnapshot, fleet model.PlayerSnapshot) (model.Coordinate, bool) {
	if targets := s.neighboursOfOpenHits(grid, fleet); len(targets) > 0 {
		return pick(s.random, targets)
	}

	open := unmarked(grid)
	var checkerboard []model.Coordinate
	for _, c := range open {
		if (c.Row+c.Col)%2 == 0 {
			checkerboard = append(checkerboard, c)
		}
	}
	if len(checkerboard) > 0 {
		return pick(s.random, checkerboard)
	}
	return pick(s.random, open)
}

func (s *HuntStrategy) neighboursOfOpenHits(grid model.GridSnapshot, fleet model.PlayerSnapshot) []model.Coordinate {
	sunk := make(map[model.ShipID]bool)
	for _, ship := range fleet.Ships {
		if ship.Length > 0 && len(ship.Damage) >= ship.Length {
			sunk[ship.ID] = true
		}
	}

	seen := make(map[model.Coordinate]bool)
	var targets []model.Coordinate
	for _, c := range model.AllCoordinates() {
		sq, ok := grid.Squares[c.Key()]
		if !ok || !sq.Marked || sq.HasShip == nil || !*sq.HasShip || sunk[sq.ShipID] {
			continue
		}
		for _, n := range neighbours(c) {
			nsq, ok := grid.Squares[n.Key()]
			if ok && !nsq.Marked && !seen[n] {
				seen[n] = true
				targets = append(targets, n)
			}
		}
	}
	return targets
}

// unmarked returns the grid's unmarked squares in board order
func unmarked(grid model.GridSnapshot) []model.Coordinate {
	var open []model.Coordinate
	for _, c := range model.AllCoordinates() {
		if sq, ok := grid.Squares[c.Key()]; ok && !sq.Marked {
			open = append(open, c)
		}
	}
	return open
}

func neighbours(c model.Coordinate) []model.Coordinate {
	candidates := []model.Coordinate{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
	out := candidates[:0]
	for _, n := range candidates {
		if n.IsValid() {
			out = append(out, n)
		}
	}
	return out
}

func pick(rnd random.Random, options []model.Coordinate) (model.Coordinate, bool) {
	if len(options) == 0 {
		return model.Coordinate{}, false
	}
	return options[rnd.Intn(len(options))], true
}
