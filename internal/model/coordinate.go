package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// GridSize is the number of rows and columns on a board
	GridSize = 10
	// MinIndex is the first row/column number (coordinates are 1-based)
	MinIndex = 1
)

// Coordinate addresses one cell of a grid. Row 1 is rendered as "A".
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewCoordinate returns a validated coordinate
func NewCoordinate(row, col int) (Coordinate, error) {
	c := Coordinate{Row: row, Col: col}
	if !c.IsValid() {
		return Coordinate{}, fmt.Errorf("%w: row %d col %d", ErrInvalidCoordinate, row, col)
	}
	return c, nil
}

// IsValid returns true if both axes lie within the board
func (c Coordinate) IsValid() bool {
	return c.Row >= MinIndex && c.Row <= GridSize && c.Col >= MinIndex && c.Col <= GridSize
}

// OffsetBy shifts the coordinate, clamping each axis to the board
func (c Coordinate) OffsetBy(colDelta, rowDelta int) Coordinate {
	return Coordinate{
		Row: clamp(c.Row+rowDelta, MinIndex, GridSize),
		Col: clamp(c.Col+colDelta, MinIndex, GridSize),
	}
}

// Equals compares row and column
func (c Coordinate) Equals(other Coordinate) bool {
	return c.Row == other.Row && c.Col == other.Col
}

// RowLetter returns the letter for the row (1 -> A ... 10 -> J)
func (c Coordinate) RowLetter() string {
	return string(rune('A' + c.Row - 1))
}

// Key returns the canonical map key and display form, e.g. "(A, 1)"
func (c Coordinate) Key() string {
	return fmt.Sprintf("(%s, %d)", c.RowLetter(), c.Col)
}

func (c Coordinate) String() string {
	return c.Key()
}

// ParseCoordinate accepts "B7", "b7" or the canonical "(B, 7)" form
func ParseCoordinate(s string) (Coordinate, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	if len(trimmed) < 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	letter := strings.ToUpper(trimmed[:1])[0]
	if letter < 'A' || letter > 'A'+GridSize-1 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	col, err := strconv.Atoi(trimmed[1:])
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	return NewCoordinate(int(letter-'A')+1, col)
}

// AllCoordinates returns every board coordinate, full rows first
func AllCoordinates() []Coordinate {
	coords := make([]Coordinate, 0, GridSize*GridSize)
	for row := MinIndex; row <= GridSize; row++ {
		for col := MinIndex; col <= GridSize; col++ {
			coords = append(coords, Coordinate{Row: row, Col: col})
		}
	}
	return coords
}

// containsCoordinate reports whether c is present in list
func containsCoordinate(list []Coordinate, c Coordinate) bool {
	for _, item := range list {
		if item.Equals(c) {
			return true
		}
	}
	return false
}

func clamp(val, low, high int) int {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}
