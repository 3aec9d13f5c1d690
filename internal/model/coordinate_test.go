package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetByClamps(t *testing.T) {
	tests := []struct {
		name     string
		start    Coordinate
		colDelta int
		rowDelta int
		want     Coordinate
	}{
		{"within bounds", Coordinate{Row: 5, Col: 5}, 2, -1, Coordinate{Row: 4, Col: 7}},
		{"clamps high column", Coordinate{Row: 1, Col: 9}, 5, 0, Coordinate{Row: 1, Col: 10}},
		{"clamps low row", Coordinate{Row: 2, Col: 2}, 0, -7, Coordinate{Row: 1, Col: 2}},
		{"clamps both axes", Coordinate{Row: 10, Col: 1}, -3, 4, Coordinate{Row: 10, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.start.OffsetBy(tt.colDelta, tt.rowDelta))
		})
	}
}

func TestCoordinateKey(t *testing.T) {
	assert.Equal(t, "(A, 1)", Coordinate{Row: 1, Col: 1}.Key())
	assert.Equal(t, "(J, 10)", Coordinate{Row: 10, Col: 10}.Key())
	assert.Equal(t, "(C, 7)", Coordinate{Row: 3, Col: 7}.String())
}

func TestNewCoordinateRejectsOutOfRange(t *testing.T) {
	_, err := NewCoordinate(0, 5)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = NewCoordinate(4, 11)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	c, err := NewCoordinate(10, 1)
	require.NoError(t, err)
	assert.True(t, c.Equals(Coordinate{Row: 10, Col: 1}))
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		input   string
		want    Coordinate
		wantErr bool
	}{
		{"B7", Coordinate{Row: 2, Col: 7}, false},
		{"j10", Coordinate{Row: 10, Col: 10}, false},
		{"(A, 1)", Coordinate{Row: 1, Col: 1}, false},
		{" c 3 ", Coordinate{Row: 3, Col: 3}, false},
		{"K1", Coordinate{}, true},
		{"A11", Coordinate{}, true},
		{"A", Coordinate{}, true},
		{"", Coordinate{}, true},
		{"7B", Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllCoordinatesIsRowMajor(t *testing.T) {
	coords := AllCoordinates()
	require.Len(t, coords, GridSize*GridSize)
	assert.Equal(t, Coordinate{Row: 1, Col: 1}, coords[0])
	assert.Equal(t, Coordinate{Row: 1, Col: 2}, coords[1])
	assert.Equal(t, Coordinate{Row: 2, Col: 1}, coords[GridSize])
	assert.Equal(t, Coordinate{Row: 10, Col: 10}, coords[len(coords)-1])
}
