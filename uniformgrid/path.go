package uniformgrid

import (
	"fmt"
)

// PathOption adjusts a single path query.
type PathOption func(*pathQuery)

type pathQuery struct {
	mask *Mask
	raw  bool
}

// WithMask plans against mask instead of the grid's live occupancy. The grid
// itself is not modified.
func WithMask(mask *Mask) PathOption {
	return func(q *pathQuery) {
		q.mask = mask
	}
}

// WithoutSmoothing returns the grid-snapped waypoints as found by A*.
func WithoutSmoothing() PathOption {
	return func(q *pathQuery) {
		q.raw = true
	}
}

// FindShortestPathAStar plans a route from start to finish. The first and
// last waypoints are always start and finish themselves; the points in
// between are cell centers, optionally smoothed.
//
// When A* cannot connect the two cells the query falls back to the nearest
// free (and then nearest reachable) cells around them. Every vertex
// heuristic is rewritten on each query, so queries must not run while the
// grid is being mutated or another query is in flight.
func (g *UniformGrid) FindShortestPathAStar(start, finish Vector3, opts ...PathOption) ([]Vector3, error) {
	var q pathQuery
	for _, opt := range opts {
		opt(&q)
	}

	mask := g.mask
	graph := g.graph
	if q.mask != nil {
		if q.mask.Dimensions() != g.dims {
			return nil, fmt.Errorf("mask %+v, grid %+v: %w", q.mask.Dimensions(), g.dims, ErrDimensionMismatch)
		}
		mask = q.mask
		graph = &Graph{
			vertices: g.vertices,
			contains: mask.free,
			edges:    g.maskEdges(mask),
		}
	}

	startIdx, err := g.GetCellIndex(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	finishIdx, err := g.GetCellIndex(finish)
	if err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}

	route, err := g.route(graph, startIdx, finishIdx)
	if err != nil {
		return nil, err
	}

	path := make([]Vector3, 0, len(route)+2)
	path = append(path, start)
	path = append(path, route...)
	path = append(path, finish)

	if q.raw {
		return path, nil
	}
	return g.smooth(path, mask), nil
}

// route returns the cell centers strictly after the start cell up to and
// including the finish cell (or their fallback replacements).
func (g *UniformGrid) route(graph *Graph, s, f CellIndex) ([]Vector3, error) {
	startV := graph.Vertex(g.vertexAt(s))
	finishV := graph.Vertex(g.vertexAt(f))

	g.assignHeuristics(graph, finishV)
	if path, ok := GetMinimumPath(startV, finishV, graph); ok {
		return g.positions(path), nil
	}

	g.logger.Printf("no path from cell %v to cell %v, searching nearby cells", s, f)
	return g.fallback(graph, s, f)
}

// assignHeuristics sets every searchable vertex's heuristic to the Manhattan
// distance between its center and the finish cell center.
func (g *UniformGrid) assignHeuristics(graph *Graph, finish *Vertex) {
	goal := g.position(finish.ID)
	for id := range g.vertices {
		if !graph.Contains(VertexID(id)) {
			continue
		}
		g.vertices[id].Heuristic = g.position(VertexID(id)).Manhattan(goal)
	}
}

// positions converts a goal-first vertex stack into forward cell centers
func (g *UniformGrid) positions(stack []*Vertex) []Vector3 {
	points := make([]Vector3, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		points = append(points, g.position(stack[i].ID))
	}
	return points
}

// maskEdges derives lattice edges from an explicit mask instead of the
// stored adjacency, which only reflects live occupancy.
func (g *UniformGrid) maskEdges(mask *Mask) func(*Vertex) []Edge {
	return func(v *Vertex) []Edge {
		idx := g.dims.cell(int(v.ID))
		edges := make([]Edge, 0, len(neighborOffsets))
		for _, off := range neighborOffsets {
			n := CellIndex{I: idx.I + off.I, J: idx.J + off.J, K: idx.K + off.K}
			if !mask.Get(n) {
				continue
			}
			edges = append(edges, Edge{To: g.id(n), Weight: g.edgeWeight(idx, n)})
		}
		return edges
	}
}
