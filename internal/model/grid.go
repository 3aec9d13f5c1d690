package model

import (
	"fmt"
	"strings"
)

// GridID uniquely identifies a grid
type GridID string

// Grid is a 10x10 board. All squares are created up front and only mutated afterwards.
type Grid struct {
	ID      GridID
	squares map[string]*GridSquare
}

// NewGrid creates a grid with every square populated
func NewGrid(id GridID) *Grid {
	squares := make(map[string]*GridSquare, GridSize*GridSize)
	for _, c := range AllCoordinates() {
		squares[c.Key()] = &GridSquare{Coordinate: c}
	}
	return &Grid{
		ID:      id,
		squares: squares,
	}
}

// Get returns the square at the coordinate, or nil if the coordinate is off the board
func (g *Grid) Get(c Coordinate) *GridSquare {
	return g.squares[c.Key()]
}

// Squares returns all squares, full rows first
func (g *Grid) Squares() []*GridSquare {
	result := make([]*GridSquare, 0, len(g.squares))
	for _, c := range AllCoordinates() {
		result = append(result, g.squares[c.Key()])
	}
	return result
}

// OccupiedBy returns the coordinates of squares holding the given ship
func (g *Grid) OccupiedBy(id ShipID) []Coordinate {
	var coords []Coordinate
	for _, sq := range g.Squares() {
		if sq.ShipID == id {
			coords = append(coords, sq.Coordinate)
		}
	}
	return coords
}

// MarkedCount returns the number of squares that have been shot at
func (g *Grid) MarkedCount() int {
	count := 0
	for _, sq := range g.squares {
		if sq.Marked {
			count++
		}
	}
	return count
}

// Render draws the grid as text: X hit, M miss, S ship, ~ water.
// Unhit ships are only drawn when reveal is set.
func (g *Grid) Render(reveal bool) string {
	var b strings.Builder

	b.WriteString("   ")
	for col := MinIndex; col <= GridSize; col++ {
		fmt.Fprintf(&b, "%3d", col)
	}
	b.WriteString("\n")

	for row := MinIndex; row <= GridSize; row++ {
		b.WriteString(string(rune('A'+row-1)) + " |")
		for col := MinIndex; col <= GridSize; col++ {
			sq := g.Get(Coordinate{Row: row, Col: col})
			switch {
			case sq.Marked && sq.HasShip():
				b.WriteString("  X")
			case sq.Marked:
				b.WriteString("  M")
			case sq.HasShip() && reveal:
				b.WriteString("  S")
			default:
				b.WriteString("  ~")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
