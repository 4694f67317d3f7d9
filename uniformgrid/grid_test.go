package uniformgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, nx, ny, nz int) *UniformGrid {
	t.Helper()
	g, err := NewUniformGrid(nx, ny, nz, 1.0, Config{})
	require.NoError(t, err)
	return g
}

// edgeSets snapshots every vertex's adjacency as target -> weight
func edgeSets(g *UniformGrid) map[VertexID]map[VertexID]float64 {
	sets := make(map[VertexID]map[VertexID]float64, len(g.vertices))
	for i := range g.vertices {
		v := &g.vertices[i]
		set := make(map[VertexID]float64, len(v.Edges()))
		for _, e := range v.Edges() {
			set[e.To] = e.Weight
		}
		sets[v.ID] = set
	}
	return sets
}

// assertConsistent checks that every free cell is connected to exactly its
// free 26-neighbors and that occupied cells have no edges at all.
func assertConsistent(t *testing.T, g *UniformGrid) {
	t.Helper()
	free := 0
	for id := range g.vertices {
		idx := g.dims.cell(id)
		got := edgeSets(g)[VertexID(id)]
		if !g.mask.Get(idx) {
			assert.Empty(t, got, "occupied cell %v has edges", idx)
			continue
		}
		free++
		want := make(map[VertexID]float64)
		for _, off := range neighborOffsets {
			n := CellIndex{I: idx.I + off.I, J: idx.J + off.J, K: idx.K + off.K}
			if g.mask.Get(n) {
				want[g.id(n)] = g.edgeWeight(idx, n)
			}
		}
		assert.Equal(t, want, got, "edges of cell %v", idx)
	}
	assert.Equal(t, free, g.FreeCellCount())
}

func TestNewUniformGrid_Dimensions(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)
	assert.Equal(t, Dimensions{X: 4, Y: 3, Z: 1}, g.GetDimensions())
	assert.Equal(t, 12, g.FreeCellCount())
	assert.Equal(t, 12, g.centers.Len())

	clamped := newTestGrid(t, 0, -2, 2)
	assert.Equal(t, Dimensions{X: 1, Y: 1, Z: 2}, clamped.GetDimensions())
}

func TestNewUniformGridFromBounds(t *testing.T) {
	g, err := NewUniformGridFromBounds(Vector3{X: 10, Y: 2.5, Z: 0}, Vector3{X: 0, Y: 0, Z: 0}, 1.0, Config{})
	require.NoError(t, err)
	assert.Equal(t, Dimensions{X: 10, Y: 3, Z: 1}, g.GetDimensions())
	assert.Equal(t, Vector3{}, g.Origin())

	for _, side := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewUniformGridFromBounds(Vector3{}, Vector3{X: 1, Y: 1, Z: 1}, side, Config{})
		assert.ErrorIs(t, err, ErrInvalidSideLength)
		_, err = NewUniformGrid(2, 2, 2, side, Config{})
		assert.ErrorIs(t, err, ErrInvalidSideLength)
	}
}

func TestNewUniformGrid_FullConnectivity(t *testing.T) {
	g := newTestGrid(t, 3, 3, 3)
	assertConsistent(t, g)

	center := g.id(CellIndex{I: 1, J: 1, K: 1})
	corner := g.id(CellIndex{I: 0, J: 0, K: 0})
	assert.Len(t, g.vertices[center].Edges(), 26)
	assert.Len(t, g.vertices[corner].Edges(), 7)
}

func TestEdgeWeight_VerticalPenalty(t *testing.T) {
	g := newTestGrid(t, 3, 3, 3)
	mid := CellIndex{I: 1, J: 1, K: 1}

	assert.InDelta(t, DefaultVerticalPenalty, g.edgeWeight(mid, CellIndex{I: 1, J: 2, K: 1}), 1e-9)
	assert.InDelta(t, 1.0, g.edgeWeight(mid, CellIndex{I: 1, J: 0, K: 1}), 1e-9)
	assert.InDelta(t, math.Sqrt2, g.edgeWeight(mid, CellIndex{I: 2, J: 2, K: 1}), 1e-9, "diagonal climbs are not penalized")

	tuned, err := NewUniformGrid(3, 3, 3, 2.0, Config{VerticalPenalty: 5})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, tuned.edgeWeight(mid, CellIndex{I: 1, J: 2, K: 1}), 1e-9)
}

func TestGetCellIndex(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)

	idx, err := g.GetCellIndex(g.Origin())
	require.NoError(t, err)
	assert.Equal(t, CellIndex{}, idx)

	tests := []struct {
		name string
		pos  Vector3
		want CellIndex
	}{
		{"lower edge of region", Vector3{X: 0.5, Y: 0.5, Z: 0}, CellIndex{I: 1, J: 1}},
		{"inside region", Vector3{X: 1.49, Y: 1.2, Z: 0.3}, CellIndex{I: 1, J: 1}},
		{"center", Vector3{X: 1, Y: 1, Z: 0.9}, CellIndex{I: 1, J: 1}},
		{"just below region", Vector3{X: 0.49, Y: 1, Z: 0}, CellIndex{I: 0, J: 1}},
		{"far face clamps", Vector3{X: 4, Y: 3, Z: 1}, CellIndex{I: 3, J: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.GetCellIndex(tt.pos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCellIndex_OutOfRange(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)

	_, err := g.GetCellIndex(Vector3{X: -0.1})
	require.ErrorIs(t, err, ErrOutOfRange)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "x", rangeErr.Axis)
	assert.Equal(t, -0.1, rangeErr.Value)

	_, err = g.GetCellIndex(Vector3{X: 1, Y: 3.5})
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "y", rangeErr.Axis)

	_, err = g.GetCellIndex(Vector3{Z: math.NaN()})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMarkCellAs_Occupied(t *testing.T) {
	g := newTestGrid(t, 3, 3, 3)
	idx := CellIndex{I: 1, J: 1, K: 1}
	gen := g.Generation()

	require.NoError(t, g.MarkCellAs(idx, false))

	free, err := g.GetCellMark(idx)
	require.NoError(t, err)
	assert.False(t, free)
	assert.Equal(t, 26, g.FreeCellCount())
	assert.NotEqual(t, gen, g.Generation())

	target := g.id(idx)
	for i := range g.vertices {
		for _, e := range g.vertices[i].Edges() {
			assert.NotEqual(t, target, e.To, "vertex %d still points at occupied cell", i)
		}
	}
	assertConsistent(t, g)
}

func TestMarkCellAs_FreeRestoresIncidentEdges(t *testing.T) {
	g := newTestGrid(t, 3, 3, 3)
	corner := CellIndex{}
	mid := CellIndex{I: 1, J: 1, K: 1}
	require.NoError(t, g.MarkCellAs(corner, false))
	require.NoError(t, g.MarkCellAs(mid, false))

	require.NoError(t, g.MarkCellAs(mid, true))

	assert.Len(t, g.vertices[g.id(mid)].Edges(), 25)
	assert.Empty(t, g.vertices[g.id(corner)].Edges())
	assertConsistent(t, g)
}

func TestMarkCellAs_NoChange(t *testing.T) {
	g := newTestGrid(t, 2, 2, 2)
	gen := g.Generation()
	require.NoError(t, g.MarkCellAs(CellIndex{}, true))
	assert.Equal(t, gen, g.Generation())

	assert.ErrorIs(t, g.MarkCellAs(CellIndex{I: 2}, false), ErrOutOfRange)
	_, err := g.GetCellMark(CellIndex{I: -1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMarkCellAtAs(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)
	require.NoError(t, g.MarkCellAtAs(Vector3{X: 2.2, Y: 0.9, Z: 0}, false))

	free, err := g.GetCellMarkAt(Vector3{X: 1.6, Y: 1.4, Z: 0.5})
	require.NoError(t, err)
	assert.False(t, free)

	assert.ErrorIs(t, g.MarkCellAtAs(Vector3{X: 9}, false), ErrOutOfRange)
}

func TestMarkRangeAs(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)

	require.NoError(t, g.MarkRangeAs(Vector3{X: 1.2, Y: 0.4, Z: 10}, Vector3{X: -5, Y: -5, Z: -5}, false))
	assert.Equal(t, 10, g.FreeCellCount())
	for _, idx := range []CellIndex{{I: 0}, {I: 1}} {
		free, err := g.GetCellMark(idx)
		require.NoError(t, err)
		assert.False(t, free, "cell %v", idx)
	}
	assertConsistent(t, g)

	gen := g.Generation()
	require.NoError(t, g.MarkRangeAs(Vector3{X: 20, Y: 20, Z: 20}, Vector3{X: 30, Y: 30, Z: 30}, false))
	assert.Equal(t, gen, g.Generation(), "box outside the grid marks nothing")

	require.NoError(t, g.MarkRangeAs(Vector3{}, Vector3{X: 4, Y: 3, Z: 1}, true))
	assert.Equal(t, 12, g.FreeCellCount())
	assertConsistent(t, g)
}

func TestMarkRangeAs_MatchesSingleCellUpdates(t *testing.T) {
	bulk := newTestGrid(t, 4, 4, 4)
	single := newTestGrid(t, 4, 4, 4)

	require.NoError(t, bulk.MarkRangeAs(Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 2, Y: 3, Z: 2}, false))
	for k := 1; k <= 2; k++ {
		for j := 1; j <= 3; j++ {
			for i := 1; i <= 2; i++ {
				require.NoError(t, single.MarkCellAs(CellIndex{I: i, J: j, K: k}, false))
			}
		}
	}
	assert.Equal(t, edgeSets(single), edgeSets(bulk))

	require.NoError(t, bulk.MarkRangeAs(Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 2, Y: 2, Z: 2}, true))
	assertConsistent(t, bulk)
}

func TestMarkAllCells_ResetIsIdempotent(t *testing.T) {
	fresh := newTestGrid(t, 3, 2, 4)
	g := newTestGrid(t, 3, 2, 4)

	require.NoError(t, g.MarkCellAs(CellIndex{I: 1, J: 1, K: 2}, false))
	g.MarkAllCellsAsOccupied()
	assert.Equal(t, 0, g.FreeCellCount())
	assertConsistent(t, g)

	g.MarkAllCellsAsFree()
	assert.Equal(t, edgeSets(fresh), edgeSets(g))
	assert.Equal(t, fresh.FreeCellCount(), g.FreeCellCount())
}

func TestMask_SnapshotIsIndependent(t *testing.T) {
	g := newTestGrid(t, 2, 2, 1)
	m := g.Mask()
	m.Set(CellIndex{}, false)

	free, err := g.GetCellMark(CellIndex{})
	require.NoError(t, err)
	assert.True(t, free)
	assert.False(t, m.Get(CellIndex{}))
	assert.False(t, m.Get(CellIndex{I: 5}), "outside the mask reads as occupied")
}

func TestGetCellCenter(t *testing.T) {
	g, err := NewUniformGridFromBounds(Vector3{X: -2, Y: 0, Z: 1}, Vector3{X: 2, Y: 1, Z: 3}, 0.5, Config{})
	require.NoError(t, err)

	c, err := g.GetCellCenter(CellIndex{I: 3, J: 1, K: 2})
	require.NoError(t, err)
	assert.Equal(t, Vector3{X: -0.5, Y: 0.5, Z: 2}, c)

	idx, err := g.GetCellIndex(c)
	require.NoError(t, err)
	assert.Equal(t, CellIndex{I: 3, J: 1, K: 2}, idx)

	_, err = g.GetCellCenter(CellIndex{I: 100})
	assert.ErrorIs(t, err, ErrOutOfRange)
}
