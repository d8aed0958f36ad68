// Package hose plans the irrigation network: a low-redundancy tree of
// hose paths growing out from the water sources until every reachable
// plant is within coverage radius of a network tile.
package hose

import (
	"math"
	"sort"

	"verdant/garden"
	"verdant/pathing"
)

// Plan routes hoses over the grid so that every plant reachable through
// non-pillar terrain ends up covered. The input grid is not modified;
// the returned grid carries the hose paths. Plants no path can reach
// are left uncovered; that is a terrain limitation, not an error.
func Plan(g *garden.Grid, coverageRadius int) *garden.Grid {
	out := g.Clone()
	out.HosePaths = nil

	network := make(map[garden.Pos]struct{})
	for _, t := range out.TilesOfType(garden.WaterSource) {
		network[t.Pos()] = struct{}{}
	}
	if len(network) == 0 {
		return out
	}

	uncovered := uncoveredPlants(out, network, coverageRadius)
	nextID := 1

	for len(uncovered) > 0 {
		best := bestConnection(out, network, uncovered)
		if best == nil {
			break // remaining plants are unreachable
		}

		// Hoses terminate adjacent to the plant, never on it. The
		// search runs plant-to-network, so the plant is path[0];
		// reversing yields the source-to-target order stored on the
		// path.
		tiles := reverseTrim(best.path)
		if len(tiles) == 0 {
			// Plant sits on the network edge; nothing to lay, but it
			// is covered by the existing network next recompute.
			delete(uncovered, best.plant)
			continue
		}

		out.HosePaths = append(out.HosePaths, garden.HosePath{
			ID:     nextID,
			Source: tiles[0],
			Target: tiles[len(tiles)-1],
			Tiles:  tiles,
		})
		nextID++
		for _, p := range tiles {
			network[p] = struct{}{}
		}

		uncovered = uncoveredPlants(out, network, coverageRadius)
	}

	return out
}

type connection struct {
	plant garden.Pos
	path  []garden.Pos // plant first, network tile last
	cost  float64
}

// bestConnection finds, among all uncovered plants, the cheapest path
// to the network. Plants are evaluated in row-major order so ties break
// deterministically.
func bestConnection(g *garden.Grid, network map[garden.Pos]struct{}, uncovered map[garden.Pos]struct{}) *connection {
	neighbors := func(p garden.Pos, dst []pathing.Neighbor) []pathing.Neighbor {
		offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
		for _, o := range offsets {
			t := g.At(p.X+o[0], p.Y+o[1])
			if t == nil || !t.Traversable() {
				continue
			}
			dst = append(dst, pathing.Neighbor{Pos: t.Pos(), Cost: t.MoveCost()})
		}
		return dst
	}

	var best *connection
	for _, plant := range sortedPositions(uncovered) {
		goal, ok := nearestNetworkTile(plant, network)
		if !ok {
			continue
		}
		path, found := pathing.FindPath(plant, goal, neighbors, pathing.Manhattan)
		if !found {
			continue
		}
		cost := pathing.PathCost(path, func(p garden.Pos) float64 {
			return g.AtPos(p).MoveCost()
		})
		if best == nil || cost < best.cost {
			best = &connection{plant: plant, path: path, cost: cost}
		}
	}
	return best
}

// nearestNetworkTile picks the network tile closest to p by Manhattan
// distance, breaking ties by (y, x) order for determinism.
func nearestNetworkTile(p garden.Pos, network map[garden.Pos]struct{}) (garden.Pos, bool) {
	best := garden.Pos{}
	bestDist := math.MaxInt
	found := false
	for _, q := range sortedPositions(network) {
		d := p.Manhattan(q)
		if d < bestDist {
			best = q
			bestDist = d
			found = true
		}
	}
	return best, found
}

func uncoveredPlants(g *garden.Grid, network map[garden.Pos]struct{}, radius int) map[garden.Pos]struct{} {
	out := make(map[garden.Pos]struct{})
	for _, t := range g.PlantedTiles() {
		if !covered(t.Pos(), network, radius) {
			out[t.Pos()] = struct{}{}
		}
	}
	return out
}

func covered(p garden.Pos, network map[garden.Pos]struct{}, radius int) bool {
	for q := range network {
		if p.Manhattan(q) <= radius {
			return true
		}
	}
	return false
}

// reverseTrim drops the plant tile (first element) and reverses the
// rest into source-to-target order.
func reverseTrim(path []garden.Pos) []garden.Pos {
	if len(path) <= 1 {
		return nil
	}
	rest := path[1:]
	out := make([]garden.Pos, len(rest))
	for i := range rest {
		out[i] = rest[len(rest)-1-i]
	}
	return out
}

func sortedPositions(set map[garden.Pos]struct{}) []garden.Pos {
	out := make([]garden.Pos, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
