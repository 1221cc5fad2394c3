package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected int
	}{
		{"same square", Point{4, 5}, Point{4, 5}, 0},
		{"adjacent horizontal", Point{4, 5}, Point{5, 5}, 1},
		{"adjacent vertical", Point{4, 5}, Point{4, 4}, 1},
		{"diagonal counts both axes", Point{0, 0}, Point{3, 4}, 7},
		{"negative coordinates", Point{-2, -2}, Point{1, 2}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Distance(tt.b))
			assert.Equal(t, tt.expected, tt.b.Distance(tt.a))
		})
	}
}

func TestPointDistanceFeet(t *testing.T) {
	a := Point{0, 0}
	b := Point{2, 1}
	assert.Equal(t, 15, a.DistanceFeet(b))
}

func TestSquaresFromFeet(t *testing.T) {
	assert.Equal(t, 6, SquaresFromFeet(30))
	assert.Equal(t, 1, SquaresFromFeet(5))
	assert.Equal(t, 0, SquaresFromFeet(4))
}

func TestPointString(t *testing.T) {
	p := Point{4, 5}
	assert.Equal(t, "(4, 5)", p.String())
}

func TestPointJSONRoundTrip(t *testing.T) {
	p := Point{3, 7}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, "[3,7]", string(data))

	var decoded Point
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestPointUnmarshalRejectsBadShape(t *testing.T) {
	var p Point
	err := json.Unmarshal([]byte(`{"x":1,"y":2}`), &p)
	assert.Error(t, err)
}
