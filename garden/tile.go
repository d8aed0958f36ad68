package garden

import "math"

// TileType classifies a garden tile.
type TileType uint8

const (
	Soil TileType = iota
	Path
	Pillar
	WaterSource
)

// String returns a readable tile type name.
func (t TileType) String() string {
	switch t {
	case Soil:
		return "soil"
	case Path:
		return "path"
	case Pillar:
		return "pillar"
	case WaterSource:
		return "water_source"
	}
	return "unknown"
}

// Pos is a tile coordinate on the grid.
type Pos struct {
	X, Y int
}

// Manhattan returns the Manhattan distance between two positions.
func (p Pos) Manhattan(q Pos) int {
	dx := p.X - q.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - q.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Tile is one cell of the garden. Moisture is only meaningful on soil;
// paths, pillars and water sources keep their initial moisture.
type Tile struct {
	X, Y     int
	Type     TileType
	HasPlant bool
	Moisture float64
}

// Pos returns the tile's coordinate.
func (t *Tile) Pos() Pos {
	return Pos{X: t.X, Y: t.Y}
}

// Traversable reports whether a hose may be routed across this tile.
func (t *Tile) Traversable() bool {
	return t.Type != Pillar
}

// MoveCost returns the cost of routing a hose across this tile.
// Paths and water sources are preferred over open soil; pillars are
// impassable.
func (t *Tile) MoveCost() float64 {
	switch t.Type {
	case Path, WaterSource:
		return 1.0
	case Soil:
		return 1.3
	}
	return math.Inf(1)
}
