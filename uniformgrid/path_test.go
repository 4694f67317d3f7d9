package uniformgrid

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockedGrid is a 4x3x1 grid with an L-shaped block in the lower middle:
//
//	j=2  . . . .
//	j=1  . # # .
//	j=0  . . # .
func blockedGrid(t *testing.T, cfg Config) *UniformGrid {
	t.Helper()
	g, err := NewUniformGrid(4, 3, 1, 1.0, cfg)
	require.NoError(t, err)
	for _, idx := range []CellIndex{{I: 1, J: 1}, {I: 2, J: 0}, {I: 2, J: 1}} {
		require.NoError(t, g.MarkCellAs(idx, false))
	}
	return g
}

var (
	blockedStart  = Vector3{X: 0.1, Y: 2.3, Z: 0}
	blockedFinish = Vector3{X: 3.6, Y: 0.3, Z: 0}
)

func TestFindShortestPathAStar_RoutesOverBlock(t *testing.T) {
	g := blockedGrid(t, Config{})

	path, err := g.FindShortestPathAStar(blockedStart, blockedFinish, WithoutSmoothing())
	require.NoError(t, err)

	assert.Equal(t, []Vector3{
		blockedStart,
		{X: 1, Y: 2, Z: 0},
		{X: 2, Y: 2, Z: 0},
		{X: 3, Y: 1, Z: 0},
		{X: 3, Y: 0, Z: 0},
		blockedFinish,
	}, path)
}

func TestFindShortestPathAStar_Smoothed(t *testing.T) {
	g := blockedGrid(t, Config{SmoothingStep: 0.1})

	raw, err := g.FindShortestPathAStar(blockedStart, blockedFinish, WithoutSmoothing())
	require.NoError(t, err)
	path, err := g.FindShortestPathAStar(blockedStart, blockedFinish)
	require.NoError(t, err)

	assert.Equal(t, []Vector3{
		blockedStart,
		{X: 2, Y: 2, Z: 0},
		{X: 3, Y: 1, Z: 0},
		blockedFinish,
	}, path)
	assert.LessOrEqual(t, PathLength(path), PathLength(raw))
}

func TestFindShortestPathAStar_EndpointsAreExact(t *testing.T) {
	g := blockedGrid(t, Config{})

	tests := []struct {
		name          string
		start, finish Vector3
	}{
		{"same point", Vector3{X: 0.3, Y: 2.1, Z: 0.2}, Vector3{X: 0.3, Y: 2.1, Z: 0.2}},
		{"same cell", Vector3{X: 3.1, Y: 2.2, Z: 0}, Vector3{X: 2.9, Y: 1.8, Z: 0.4}},
		{"across block", blockedStart, blockedFinish},
		{"reverse", blockedFinish, blockedStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]PathOption{nil, {WithoutSmoothing()}} {
				path, err := g.FindShortestPathAStar(tt.start, tt.finish, opts...)
				require.NoError(t, err)
				require.GreaterOrEqual(t, len(path), 2)
				assert.Equal(t, tt.start, path[0])
				assert.Equal(t, tt.finish, path[len(path)-1])
			}
		})
	}

	p := Vector3{X: 0.3, Y: 2.1, Z: 0.2}
	path, err := g.FindShortestPathAStar(p, p)
	require.NoError(t, err)
	assert.Equal(t, []Vector3{p, p}, path)
}

func TestFindShortestPathAStar_AvoidsClimbing(t *testing.T) {
	// A wall two cells high in the middle of a 5x3x3 room. Going around it
	// sideways is far cheaper than climbing straight up.
	g, err := NewUniformGrid(5, 3, 3, 1.0, Config{})
	require.NoError(t, err)
	require.NoError(t, g.MarkRangeAs(Vector3{X: 2, Y: 0, Z: 0}, Vector3{X: 2, Y: 1, Z: 1}, false))

	path, err := g.FindShortestPathAStar(Vector3{X: 0, Y: 0, Z: 0}, Vector3{X: 4, Y: 0, Z: 0}, WithoutSmoothing())
	require.NoError(t, err)
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		straightUp := a.X == b.X && a.Z == b.Z && b.Y > a.Y
		assert.False(t, straightUp, "segment %v -> %v climbs", a, b)
	}
}

func TestFindShortestPathAStar_WithMask(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)
	before := edgeSets(g)
	gen := g.Generation()

	mask := g.Mask()
	for _, idx := range []CellIndex{{I: 1, J: 1}, {I: 2, J: 0}, {I: 2, J: 1}} {
		mask.Set(idx, false)
	}

	path, err := g.FindShortestPathAStar(blockedStart, blockedFinish, WithMask(mask), WithoutSmoothing())
	require.NoError(t, err)
	assert.Equal(t, []Vector3{
		blockedStart,
		{X: 1, Y: 2, Z: 0},
		{X: 2, Y: 2, Z: 0},
		{X: 3, Y: 1, Z: 0},
		{X: 3, Y: 0, Z: 0},
		blockedFinish,
	}, path)

	assert.Equal(t, 12, g.FreeCellCount())
	assert.Equal(t, gen, g.Generation())
	assert.Equal(t, before, edgeSets(g), "explicit mask must not touch the live graph")
}

func TestFindShortestPathAStar_MaskDimensionMismatch(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)
	mask := NewMask(Dimensions{X: 4, Y: 3, Z: 2}, true)

	_, err := g.FindShortestPathAStar(blockedStart, blockedFinish, WithMask(mask))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFindShortestPathAStar_OutOfRange(t *testing.T) {
	g := newTestGrid(t, 4, 3, 1)

	_, err := g.FindShortestPathAStar(Vector3{X: -1}, blockedFinish)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = g.FindShortestPathAStar(blockedStart, Vector3{Y: 7})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFindShortestPathAStar_LogsFallback(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewUniformGrid(5, 1, 1, 1.0, Config{Logger: log.New(&buf, "", 0)})
	require.NoError(t, err)

	_, err = g.FindShortestPathAStar(Vector3{}, Vector3{X: 4})
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	require.NoError(t, g.MarkCellAs(CellIndex{I: 2}, false))
	_, err = g.FindShortestPathAStar(Vector3{}, Vector3{X: 4})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "searching nearby cells")
}
