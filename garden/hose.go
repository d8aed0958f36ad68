package garden

// HosePath is one routed hose segment: an ordered run of tiles from a
// network tile (source) to the tile adjacent to the plant it serves
// (target). The plant tile itself is never part of the path.
type HosePath struct {
	ID     int
	Source Pos
	Target Pos
	Tiles  []Pos
}

func (hp HosePath) clone() HosePath {
	c := hp
	c.Tiles = make([]Pos, len(hp.Tiles))
	copy(c.Tiles, hp.Tiles)
	return c
}
