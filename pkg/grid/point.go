package grid

import (
	"encoding/json"
	"fmt"
)

// FeetPerSquare is the scale of the battle grid. One square is five feet.
const FeetPerSquare = 5

// Point is a position on the battle grid.
// It serializes as a two-element JSON array [x, y].
type Point struct {
	X int
	Y int
}

// Distance returns the Manhattan distance to q in grid squares.
func (p Point) Distance(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// DistanceFeet returns the Manhattan distance to q in feet.
func (p Point) DistanceFeet(q Point) int {
	return p.Distance(q) * FeetPerSquare
}

// SquaresFromFeet converts a range in feet to grid squares,
// truncating partial squares.
func SquaresFromFeet(feet int) int {
	return feet / FeetPerSquare
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var coords [2]int
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("invalid grid point: %w", err)
	}
	p.X = coords[0]
	p.Y = coords[1]
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
