package uniformgrid

import (
	"container/heap"
	"fmt"
)

// ringCandidate is a cell found on one ring of the fallback search
type ringCandidate struct {
	idx      CellIndex
	id       VertexID
	distance int // Manhattan distance in cells from the ring center
}

// ringQueue orders candidates of one ring by distance, then by id so the
// choice is deterministic.
type ringQueue []ringCandidate

func (q ringQueue) Len() int { return len(q) }

func (q ringQueue) Less(i, j int) bool {
	if q[i].distance != q[j].distance {
		return q[i].distance < q[j].distance
	}
	return q[i].id < q[j].id
}

func (q ringQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *ringQueue) Push(x interface{}) { *q = append(*q, x.(ringCandidate)) }

func (q *ringQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// fallback relocates the start and finish cells to the nearest usable cells
// on their Y layer and searches again. It first tries the nearest free
// cells; if those are still disconnected the finish is moved to the nearest
// cell reachable from the relocated start.
func (g *UniformGrid) fallback(graph *Graph, s, f CellIndex) ([]Vector3, error) {
	ns, ok := g.nearestCell(s, graph.Contains)
	if !ok {
		return nil, fmt.Errorf("around start cell %v: %w", s, ErrNoFreeCell)
	}
	nf, ok := g.nearestCell(f, graph.Contains)
	if !ok {
		return nil, fmt.Errorf("around finish cell %v: %w", f, ErrNoFreeCell)
	}

	startV := graph.Vertex(g.vertexAt(ns))
	finishV := graph.Vertex(g.vertexAt(nf))
	g.assignHeuristics(graph, finishV)
	path, found := GetMinimumPath(startV, finishV, graph)

	if !found {
		reachable := g.reachableFrom(graph, startV.ID)
		nf, ok = g.nearestCell(f, func(id VertexID) bool { return reachable[id] })
		if !ok {
			return nil, fmt.Errorf("from cell %v toward cell %v: %w", ns, f, ErrNoPath)
		}
		finishV = graph.Vertex(g.vertexAt(nf))
		g.assignHeuristics(graph, finishV)
		if path, found = GetMinimumPath(startV, finishV, graph); !found {
			return nil, fmt.Errorf("from cell %v to reachable cell %v: %w", ns, nf, ErrNoPath)
		}
	}

	g.logger.Printf("relocated start %v -> %v, finish %v -> %v", s, ns, f, nf)

	route := g.positions(path)
	if ns != s {
		route = append([]Vector3{g.position(startV.ID)}, route...)
	}
	return route, nil
}

// nearestCell grows square rings around center on its Y layer, ring radius
// 0, 1, 2, ... up to the larger horizontal dimension, and returns the
// accepted cell with the smallest Manhattan distance on the first ring that
// has any.
func (g *UniformGrid) nearestCell(center CellIndex, accept func(VertexID) bool) (CellIndex, bool) {
	maxRadius := max(g.dims.X, g.dims.Z)
	for r := 0; r <= maxRadius; r++ {
		ring := &ringQueue{}
		for dk := -r; dk <= r; dk++ {
			for di := -r; di <= r; di++ {
				if max(abs(di), abs(dk)) != r {
					continue
				}
				idx := CellIndex{I: center.I + di, J: center.J, K: center.K + dk}
				if !g.dims.Contains(idx) {
					continue
				}
				id := g.id(idx)
				if !accept(id) {
					continue
				}
				heap.Push(ring, ringCandidate{idx: idx, id: id, distance: abs(di) + abs(dk)})
			}
		}
		if ring.Len() > 0 {
			return heap.Pop(ring).(ringCandidate).idx, true
		}
	}
	return CellIndex{}, false
}

// reachableFrom collects every vertex connected to origin inside the view
func (g *UniformGrid) reachableFrom(graph *Graph, origin VertexID) map[VertexID]bool {
	seen := map[VertexID]bool{origin: true}
	queue := []VertexID{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range graph.Neighbors(graph.Vertex(current)) {
			if seen[edge.To] || !graph.Contains(edge.To) {
				continue
			}
			seen[edge.To] = true
			queue = append(queue, edge.To)
		}
	}
	return seen
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
