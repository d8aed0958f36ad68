// Package garden models the tile grid the simulation runs on: typed
// tiles with per-tile moisture and plant occupancy, plus the hose
// network overlaid by the planner. Grids are treated as immutable
// snapshots; the simulation step produces a new grid rather than
// mutating one in place.
package garden

// Grid is a row-major tile matrix plus the hose network routed over it.
type Grid struct {
	W, H  int
	tiles []Tile

	// HosePaths is the network overlay produced by the planner. Paths
	// may share tiles (tree branches).
	HosePaths []HosePath
}

// NewGrid allocates a grid of soil tiles with zero moisture.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid{W: w, H: h, tiles: make([]Tile, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.tiles[y*w+x] = Tile{X: x, Y: y, Type: Soil}
		}
	}
	return g
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the tile at (x, y), or nil if out of bounds.
func (g *Grid) At(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.W+x]
}

// AtPos returns the tile at p, or nil if out of bounds.
func (g *Grid) AtPos(p Pos) *Tile {
	return g.At(p.X, p.Y)
}

// Neighbors appends the up-to-4 orthogonal in-bounds neighbors of (x, y)
// to dst and returns it. Order is fixed (W, E, N, S) so that callers
// iterating neighbors are deterministic.
func (g *Grid) Neighbors(x, y int, dst []*Tile) []*Tile {
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, o := range offsets {
		if t := g.At(x+o[0], y+o[1]); t != nil {
			dst = append(dst, t)
		}
	}
	return dst
}

// TilesOfType returns all tiles of the given type in row-major order.
func (g *Grid) TilesOfType(tt TileType) []*Tile {
	var out []*Tile
	for i := range g.tiles {
		if g.tiles[i].Type == tt {
			out = append(out, &g.tiles[i])
		}
	}
	return out
}

// PlantedTiles returns all tiles carrying a plant in row-major order.
func (g *Grid) PlantedTiles() []*Tile {
	var out []*Tile
	for i := range g.tiles {
		if g.tiles[i].HasPlant {
			out = append(out, &g.tiles[i])
		}
	}
	return out
}

// Clone returns a deep copy of the grid. Hose paths are copied so the
// clone shares no mutable state with the original.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, tiles: make([]Tile, len(g.tiles))}
	copy(c.tiles, g.tiles)
	if len(g.HosePaths) > 0 {
		c.HosePaths = make([]HosePath, len(g.HosePaths))
		for i, hp := range g.HosePaths {
			c.HosePaths[i] = hp.clone()
		}
	}
	return c
}

// NetworkTiles returns the union of all hose path tiles and all water
// source tiles, the set of positions that irrigate surrounding soil.
func (g *Grid) NetworkTiles() map[Pos]struct{} {
	net := make(map[Pos]struct{})
	for i := range g.tiles {
		if g.tiles[i].Type == WaterSource {
			net[g.tiles[i].Pos()] = struct{}{}
		}
	}
	for _, hp := range g.HosePaths {
		for _, p := range hp.Tiles {
			net[p] = struct{}{}
		}
	}
	return net
}

// CoveredSoil returns the positions of soil tiles lying within the given
// Manhattan radius of any network tile. These are the tiles irrigation
// reaches when it is on.
func (g *Grid) CoveredSoil(radius int) map[Pos]struct{} {
	covered := make(map[Pos]struct{})
	for p := range g.NetworkTiles() {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx)+abs(dy) > radius {
					continue
				}
				t := g.At(p.X+dx, p.Y+dy)
				if t != nil && t.Type == Soil {
					covered[t.Pos()] = struct{}{}
				}
			}
		}
	}
	return covered
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
