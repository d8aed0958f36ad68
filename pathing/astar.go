// Package pathing provides best-first weighted shortest-path search
// over a grid, with pluggable neighbor generation, edge costs and
// heuristic. Unreachable goals are a normal result, reported by the
// ok return, not an error.
package pathing

import (
	"container/heap"

	"verdant/garden"
)

// Neighbor is one reachable adjacent position and the cost of the edge
// leading into it.
type Neighbor struct {
	Pos  garden.Pos
	Cost float64
}

// NeighborFunc generates the neighbors of a position. It appends to dst
// and returns it so searches can reuse one backing slice.
type NeighborFunc func(p garden.Pos, dst []Neighbor) []Neighbor

// HeuristicFunc estimates remaining cost from a to b. It must never
// overestimate for FindPath to return true shortest paths.
type HeuristicFunc func(a, b garden.Pos) float64

// Manhattan is the standard grid heuristic. It is admissible here
// because no tile's traversal cost is below 1.0.
func Manhattan(a, b garden.Pos) float64 {
	return float64(a.Manhattan(b))
}

// pathNode is an entry in the open frontier.
type pathNode struct {
	pos   garden.Pos
	f     float64
	index int
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// FindPath runs A* from start to goal. The returned path includes both
// endpoints. ok is false when the goal is unreachable.
func FindPath(start, goal garden.Pos, neighbors NeighborFunc, h HeuristicFunc) (path []garden.Pos, ok bool) {
	if start == goal {
		return []garden.Pos{start}, true
	}

	open := &nodeHeap{}
	closed := make(map[garden.Pos]struct{})
	cameFrom := make(map[garden.Pos]garden.Pos)
	gScore := map[garden.Pos]float64{start: 0}

	heap.Push(open, &pathNode{pos: start, f: h(start, goal)})

	var scratch []Neighbor
	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)

		if current.pos == goal {
			return reconstruct(cameFrom, start, goal), true
		}
		if _, done := closed[current.pos]; done {
			continue
		}
		closed[current.pos] = struct{}{}

		scratch = neighbors(current.pos, scratch[:0])
		for _, nb := range scratch {
			if _, done := closed[nb.Pos]; done {
				continue
			}

			tentative := gScore[current.pos] + nb.Cost
			existing, seen := gScore[nb.Pos]
			if seen && tentative >= existing {
				continue
			}

			cameFrom[nb.Pos] = current.pos
			gScore[nb.Pos] = tentative
			heap.Push(open, &pathNode{pos: nb.Pos, f: tentative + h(nb.Pos, goal)})
		}
	}

	return nil, false
}

// PathCost sums the gScore-equivalent cost of a path under the given
// per-tile cost function, charging the cost of each tile entered
// (the start tile is free).
func PathCost(path []garden.Pos, cost func(garden.Pos) float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += cost(path[i])
	}
	return total
}

func reconstruct(cameFrom map[garden.Pos]garden.Pos, start, goal garden.Pos) []garden.Pos {
	var rev []garden.Pos
	cur := goal
	for cur != start {
		rev = append(rev, cur)
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = prev
	}
	rev = append(rev, start)

	path := make([]garden.Pos, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
