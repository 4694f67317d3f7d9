package uniformgrid

import "fmt"

// MarkCellAs sets idx free or occupied and keeps its incident edges in step.
// Freeing a cell connects it with every free neighbor; occupying it drops
// every edge to and from it.
func (g *UniformGrid) MarkCellAs(idx CellIndex, free bool) error {
	if !g.dims.Contains(idx) {
		return fmt.Errorf("cell %v: %w", idx, ErrOutOfRange)
	}
	if !g.setMark(idx, free) {
		return nil
	}
	g.generation++
	g.updateIncidentEdges(idx, free)
	return nil
}

// MarkCellAtAs marks the cell containing position
func (g *UniformGrid) MarkCellAtAs(position Vector3, free bool) error {
	idx, err := g.GetCellIndex(position)
	if err != nil {
		return err
	}
	return g.MarkCellAs(idx, free)
}

// MarkRangeAs marks every cell whose center-rounded index falls inside the
// box between two corners. The box is clipped to the grid; a box entirely
// outside the grid marks nothing. Bulk updates set all flags first and then
// rebuild edges once per changed cell, which is cheaper than repeated
// MarkCellAs calls.
func (g *UniformGrid) MarkRangeAs(minCorner, maxCorner Vector3, free bool) error {
	lo, hi, ok := g.clipBox(minCorner, maxCorner)
	if !ok {
		return nil
	}
	loIdx, err := g.GetCellIndex(lo)
	if err != nil {
		return err
	}
	hiIdx, err := g.GetCellIndex(hi)
	if err != nil {
		return err
	}
	return g.MarkIndexRangeAs(loIdx, hiIdx, free)
}

// MarkIndexRangeAs marks every cell in the inclusive index box [lo, hi].
// Indices are clamped to the lattice.
func (g *UniformGrid) MarkIndexRangeAs(lo, hi CellIndex, free bool) error {
	lo, hi = CellIndex{
		I: max(min(lo.I, hi.I), 0),
		J: max(min(lo.J, hi.J), 0),
		K: max(min(lo.K, hi.K), 0),
	}, CellIndex{
		I: min(max(lo.I, hi.I), g.dims.X-1),
		J: min(max(lo.J, hi.J), g.dims.Y-1),
		K: min(max(lo.K, hi.K), g.dims.Z-1),
	}

	var changed []CellIndex
	for k := lo.K; k <= hi.K; k++ {
		for j := lo.J; j <= hi.J; j++ {
			for i := lo.I; i <= hi.I; i++ {
				idx := CellIndex{I: i, J: j, K: k}
				if g.setMark(idx, free) {
					changed = append(changed, idx)
				}
			}
		}
	}
	if len(changed) == 0 {
		return nil
	}

	g.generation++
	for _, idx := range changed {
		g.updateIncidentEdges(idx, free)
	}
	return nil
}

// MarkAllCellsAsFree frees every cell and rebuilds full connectivity
func (g *UniformGrid) MarkAllCellsAsFree() {
	for i := range g.mask.cells {
		g.mask.cells[i] = true
	}
	g.freeCount = len(g.mask.cells)
	g.connectAll()
	g.generation++
}

// MarkAllCellsAsOccupied occupies every cell and drops every edge
func (g *UniformGrid) MarkAllCellsAsOccupied() {
	for i := range g.mask.cells {
		g.mask.cells[i] = false
		g.vertices[i].edges = g.vertices[i].edges[:0]
	}
	g.freeCount = 0
	g.generation++
}

// setMark flips one flag and reports whether it changed
func (g *UniformGrid) setMark(idx CellIndex, free bool) bool {
	if g.mask.Get(idx) == free {
		return false
	}
	g.mask.Set(idx, free)
	if free {
		g.freeCount++
	} else {
		g.freeCount--
	}
	return true
}

func (g *UniformGrid) updateIncidentEdges(idx CellIndex, free bool) {
	v := &g.vertices[g.vertexAt(idx)]
	if free {
		v.CreateIncidentEdges(g.incidentEdges(idx))
	} else {
		v.RemoveIncidentEdges(g.neighborVertices(idx))
	}
}

// incidentEdges lists the free neighbors of idx with weights both ways
func (g *UniformGrid) incidentEdges(idx CellIndex) []IncidentEdge {
	edges := make([]IncidentEdge, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		n := CellIndex{I: idx.I + off.I, J: idx.J + off.J, K: idx.K + off.K}
		if !g.mask.Get(n) {
			continue
		}
		edges = append(edges, IncidentEdge{
			Neighbor: &g.vertices[g.id(n)],
			Out:      g.edgeWeight(idx, n),
			In:       g.edgeWeight(n, idx),
		})
	}
	return edges
}

// neighborVertices lists every in-bounds neighbor of idx regardless of state
func (g *UniformGrid) neighborVertices(idx CellIndex) []*Vertex {
	neighbors := make([]*Vertex, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		n := CellIndex{I: idx.I + off.I, J: idx.J + off.J, K: idx.K + off.K}
		if !g.dims.Contains(n) {
			continue
		}
		neighbors = append(neighbors, &g.vertices[g.id(n)])
	}
	return neighbors
}

// clipBox intersects the box between a and b with the grid's box
func (g *UniformGrid) clipBox(a, b Vector3) (Vector3, Vector3, bool) {
	far := g.origin.Add(g.extent)
	lo := Vector3{
		X: max(min(a.X, b.X), g.origin.X),
		Y: max(min(a.Y, b.Y), g.origin.Y),
		Z: max(min(a.Z, b.Z), g.origin.Z),
	}
	hi := Vector3{
		X: min(max(a.X, b.X), far.X),
		Y: min(max(a.Y, b.Y), far.Y),
		Z: min(max(a.Z, b.Z), far.Z),
	}
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return Vector3{}, Vector3{}, false
	}
	return lo, hi, true
}
