// Package uniformgrid is a 3D uniform-grid spatial index with an A* path
// planner on top of it. Callers mark regions of the grid free or occupied as
// obstacles come and go, and ask for waypoint paths between world positions.
//
// A UniformGrid is single-owner mutable state. Nothing in this package
// locks; callers must serialize occupancy updates and path queries.
package uniformgrid

import (
	"fmt"
	"io"
	"log"
	"math"
)

// DefaultVerticalPenalty multiplies the weight of purely upward moves so
// routes prefer going around obstacles over climbing them.
const DefaultVerticalPenalty = 1000.0

// Config tunes a grid. The zero value is usable.
type Config struct {
	// VerticalPenalty scales edges that move straight up. 0 means
	// DefaultVerticalPenalty.
	VerticalPenalty float64

	// SmoothingStep is the sampling distance used by path smoothing.
	// 0 means one cell side length; larger values are capped to it.
	SmoothingStep float64

	// Logger receives fallback diagnostics. nil discards them.
	Logger *log.Logger
}

// UniformGrid discretizes an axis-aligned box into cubic cells. Cell (i,j,k)
// is centered at origin + (i,j,k)*sideLength.
type UniformGrid struct {
	origin     Vector3
	extent     Vector3
	sideLength float64
	dims       Dimensions

	// mask is the per-cell free flag; it alone decides which vertices are
	// searchable, so the considered points and graph vertices cannot drift.
	mask     *Mask
	vertices []Vertex
	centers  *BidirectionalMap[Vector3, VertexID]
	graph    *Graph

	verticalPenalty float64
	smoothingStep   float64
	logger          *log.Logger

	freeCount  int
	generation uint64
}

// neighborOffsets lists the 26 lattice neighbors of a cell
var neighborOffsets = func() []CellIndex {
	offsets := make([]CellIndex, 0, 26)
	for dk := -1; dk <= 1; dk++ {
		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				if di == 0 && dj == 0 && dk == 0 {
					continue
				}
				offsets = append(offsets, CellIndex{I: di, J: dj, K: dk})
			}
		}
	}
	return offsets
}()

// NewUniformGrid creates a grid of nx*ny*nz cells anchored at the world
// origin. Counts below 1 are raised to 1.
func NewUniformGrid(nx, ny, nz int, sideLength float64, cfg Config) (*UniformGrid, error) {
	dims := Dimensions{X: max(nx, 1), Y: max(ny, 1), Z: max(nz, 1)}
	extent := Vector3{
		X: float64(dims.X) * sideLength,
		Y: float64(dims.Y) * sideLength,
		Z: float64(dims.Z) * sideLength,
	}
	return newGrid(Vector3{}, extent, dims, sideLength, cfg)
}

// NewUniformGridFromBounds creates a grid covering the box between two
// corners. Each axis gets ceil(extent/sideLength) cells, at least 1.
func NewUniformGridFromBounds(minCorner, maxCorner Vector3, sideLength float64, cfg Config) (*UniformGrid, error) {
	if !validSideLength(sideLength) {
		return nil, fmt.Errorf("side length %v: %w", sideLength, ErrInvalidSideLength)
	}
	lo := Vector3{X: min(minCorner.X, maxCorner.X), Y: min(minCorner.Y, maxCorner.Y), Z: min(minCorner.Z, maxCorner.Z)}
	hi := Vector3{X: max(minCorner.X, maxCorner.X), Y: max(minCorner.Y, maxCorner.Y), Z: max(minCorner.Z, maxCorner.Z)}
	extent := hi.Sub(lo)
	dims := Dimensions{
		X: cellCount(extent.X, sideLength),
		Y: cellCount(extent.Y, sideLength),
		Z: cellCount(extent.Z, sideLength),
	}
	return newGrid(lo, extent, dims, sideLength, cfg)
}

func cellCount(extent, sideLength float64) int {
	return max(int(math.Ceil(extent/sideLength)), 1)
}

func validSideLength(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

func newGrid(origin, extent Vector3, dims Dimensions, sideLength float64, cfg Config) (*UniformGrid, error) {
	if !validSideLength(sideLength) {
		return nil, fmt.Errorf("side length %v: %w", sideLength, ErrInvalidSideLength)
	}

	g := &UniformGrid{
		origin:          origin,
		extent:          extent,
		sideLength:      sideLength,
		dims:            dims,
		mask:            NewMask(dims, true),
		vertices:        make([]Vertex, dims.Count()),
		centers:         NewBidirectionalMap[Vector3, VertexID](dims.Count()),
		verticalPenalty: cfg.VerticalPenalty,
		smoothingStep:   cfg.SmoothingStep,
		logger:          cfg.Logger,
		freeCount:       dims.Count(),
	}
	if g.verticalPenalty <= 0 {
		g.verticalPenalty = DefaultVerticalPenalty
	}
	// Coarser sampling could step over a whole occupied cell
	if g.smoothingStep <= 0 || g.smoothingStep > sideLength {
		g.smoothingStep = sideLength
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard, "", 0)
	}

	for id := range g.vertices {
		g.vertices[id].ID = VertexID(id)
		center := g.cellCenter(dims.cell(id))
		if err := g.centers.Add(center, VertexID(id)); err != nil {
			panic(fmt.Sprintf("uniformgrid: registering cell %d: %v", id, err))
		}
	}
	g.graph = NewGraph(g.vertices, g.mask.free)
	g.connectAll()

	return g, nil
}

// connectAll rebuilds every edge from scratch. Both endpoints must be free.
func (g *UniformGrid) connectAll() {
	for id := range g.vertices {
		v := &g.vertices[id]
		v.edges = v.edges[:0]
		if !g.mask.cells[id] {
			continue
		}
		idx := g.dims.cell(id)
		for _, off := range neighborOffsets {
			n := CellIndex{I: idx.I + off.I, J: idx.J + off.J, K: idx.K + off.K}
			if !g.mask.Get(n) {
				continue
			}
			v.edges = append(v.edges, Edge{To: g.id(n), Weight: g.edgeWeight(idx, n)})
		}
	}
}

// edgeWeight is the Euclidean distance between two cell centers, scaled by
// the vertical penalty when the move goes straight up.
func (g *UniformGrid) edgeWeight(from, to CellIndex) float64 {
	w := g.cellCenter(from).Distance(g.cellCenter(to))
	if from.I == to.I && from.K == to.K && to.J > from.J {
		w *= g.verticalPenalty
	}
	return w
}

func (g *UniformGrid) id(idx CellIndex) VertexID {
	return VertexID(g.dims.linear(idx))
}

func (g *UniformGrid) cellCenter(idx CellIndex) Vector3 {
	return Vector3{
		X: g.origin.X + float64(idx.I)*g.sideLength,
		Y: g.origin.Y + float64(idx.J)*g.sideLength,
		Z: g.origin.Z + float64(idx.K)*g.sideLength,
	}
}

// position maps a vertex back to its cell center
func (g *UniformGrid) position(id VertexID) Vector3 {
	p, ok := g.centers.Reverse(id)
	if !ok {
		panic(fmt.Sprintf("uniformgrid: vertex %d has no cell: %v", id, ErrMapInconsistency))
	}
	return p
}

// vertexAt maps a cell index to its vertex through the cell center
func (g *UniformGrid) vertexAt(idx CellIndex) VertexID {
	id, ok := g.centers.Forward(g.cellCenter(idx))
	if !ok {
		panic(fmt.Sprintf("uniformgrid: cell %v has no vertex: %v", idx, ErrMapInconsistency))
	}
	return id
}

// GetDimensions returns the number of cells along each axis
func (g *UniformGrid) GetDimensions() Dimensions {
	return g.dims
}

// Origin returns the center of cell (0,0,0)
func (g *UniformGrid) Origin() Vector3 {
	return g.origin
}

// Extent returns the size of the indexed box
func (g *UniformGrid) Extent() Vector3 {
	return g.extent
}

func (g *UniformGrid) SideLength() float64 {
	return g.sideLength
}

// Generation changes every time the occupancy of any cell changes.
func (g *UniformGrid) Generation() uint64 {
	return g.generation
}

// FreeCellCount returns how many cells are currently free
func (g *UniformGrid) FreeCellCount() int {
	return g.freeCount
}

// Mask returns a snapshot of the live occupancy
func (g *UniformGrid) Mask() *Mask {
	return g.mask.Clone()
}

// GetCellCenter returns the world-space center of idx
func (g *UniformGrid) GetCellCenter(idx CellIndex) (Vector3, error) {
	if !g.dims.Contains(idx) {
		return Vector3{}, fmt.Errorf("cell %v: %w", idx, ErrOutOfRange)
	}
	return g.position(g.vertexAt(idx)), nil
}

// GetCellIndex returns the cell whose center is nearest to position. It
// fails with a *RangeError when position lies outside the grid's box.
func (g *UniformGrid) GetCellIndex(position Vector3) (CellIndex, error) {
	i, err := g.axisIndex("x", position.X, g.origin.X, g.extent.X, g.dims.X)
	if err != nil {
		return CellIndex{}, err
	}
	j, err := g.axisIndex("y", position.Y, g.origin.Y, g.extent.Y, g.dims.Y)
	if err != nil {
		return CellIndex{}, err
	}
	k, err := g.axisIndex("z", position.Z, g.origin.Z, g.extent.Z, g.dims.Z)
	if err != nil {
		return CellIndex{}, err
	}
	return CellIndex{I: i, J: j, K: k}, nil
}

func (g *UniformGrid) axisIndex(axis string, value, origin, extent float64, n int) (int, error) {
	if !(value >= origin && value <= origin+extent) {
		return 0, &RangeError{Axis: axis, Value: value, Min: origin, Max: origin + extent}
	}
	i := int(math.Floor((value - origin + g.sideLength/2) / g.sideLength))
	// The far face of the box rounds past the last center
	return min(max(i, 0), n-1), nil
}

// GetCellMark reports whether idx is free
func (g *UniformGrid) GetCellMark(idx CellIndex) (bool, error) {
	if !g.dims.Contains(idx) {
		return false, fmt.Errorf("cell %v: %w", idx, ErrOutOfRange)
	}
	return g.mask.Get(idx), nil
}

// GetCellMarkAt reports whether the cell containing position is free
func (g *UniformGrid) GetCellMarkAt(position Vector3) (bool, error) {
	idx, err := g.GetCellIndex(position)
	if err != nil {
		return false, err
	}
	return g.mask.Get(idx), nil
}
