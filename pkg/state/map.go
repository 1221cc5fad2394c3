package state

import "github.com/jwebster45206/grid-engine/pkg/grid"

// Terrain categories that block movement. Other categories are
// decorative and passable.
var blockingTerrain = map[string]bool{
	"trees": true,
}

// MapData is the static geometry of a battle map, loaded from JSON.
type MapData struct {
	Name              string                  `json:"name"`
	Description       string                  `json:"description,omitempty"`
	Width             int                     `json:"width"`
	Height            int                     `json:"height"`
	StartingPositions map[string]grid.Point   `json:"starting_positions,omitempty"`
	Terrain           map[string][]grid.Point `json:"terrain,omitempty"`
}

// defaultDimension is assumed when a map omits width or height.
const defaultDimension = 10

// Bounds returns the effective width and height of the map.
func (m *MapData) Bounds() (width, height int) {
	width, height = m.Width, m.Height
	if width <= 0 {
		width = defaultDimension
	}
	if height <= 0 {
		height = defaultDimension
	}
	return width, height
}

// InBounds reports whether p lies on the map.
func (m *MapData) InBounds(p grid.Point) bool {
	w, h := m.Bounds()
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}

// BlocksMovement reports whether p is covered by blocking terrain.
func (m *MapData) BlocksMovement(p grid.Point) bool {
	for category, points := range m.Terrain {
		if !blockingTerrain[category] {
			continue
		}
		for _, tp := range points {
			if tp == p {
				return true
			}
		}
	}
	return false
}

// TerrainAt returns the terrain category covering p, or "".
func (m *MapData) TerrainAt(p grid.Point) string {
	for category, points := range m.Terrain {
		for _, tp := range points {
			if tp == p {
				return category
			}
		}
	}
	return ""
}
