package main

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"grid-planner/uniformgrid"
)

// Obstacle is a region of the scene that entities cannot pass through.
// Without a footprint it is the axis-aligned box Min-Max. With one, it is
// the footprint polygon (in the XZ plane, x -> X and y -> Z) extruded from
// Min.Y to Max.Y.
type Obstacle struct {
	ID        string              `json:"id"`
	Min       uniformgrid.Vector3 `json:"min"`
	Max       uniformgrid.Vector3 `json:"max"`
	Footprint orb.Polygon         `json:"-"`
}

// normalize orders the corners so Min <= Max on every axis
func (o *Obstacle) normalize() {
	lo := uniformgrid.Vector3{X: math.Min(o.Min.X, o.Max.X), Y: math.Min(o.Min.Y, o.Max.Y), Z: math.Min(o.Min.Z, o.Max.Z)}
	hi := uniformgrid.Vector3{X: math.Max(o.Min.X, o.Max.X), Y: math.Max(o.Min.Y, o.Max.Y), Z: math.Max(o.Min.Z, o.Max.Z)}
	o.Min, o.Max = lo, hi
}

// footprintObstacle builds an obstacle from a polygon footprint and a
// vertical range
func footprintObstacle(id string, footprint orb.Polygon, minY, maxY float64) Obstacle {
	bound := footprint.Bound()
	o := Obstacle{
		ID:        id,
		Min:       uniformgrid.Vector3{X: bound.Min.X(), Y: minY, Z: bound.Min.Y()},
		Max:       uniformgrid.Vector3{X: bound.Max.X(), Y: maxY, Z: bound.Max.Y()},
		Footprint: footprint,
	}
	o.normalize()
	return o
}

// apply marks the obstacle's cells on the grid
func (o *Obstacle) apply(grid *uniformgrid.UniformGrid, free bool) error {
	if len(o.Footprint) == 0 {
		return grid.MarkRangeAs(o.Min, o.Max, free)
	}
	for _, idx := range o.cells(grid) {
		if err := grid.MarkCellAs(idx, free); err != nil {
			return fmt.Errorf("obstacle %s: %w", o.ID, err)
		}
	}
	return nil
}

// cells lists the footprint cells: every cell in the obstacle's vertical
// range whose center lies inside the footprint, plus the cells holding the
// footprint's vertices so thin shapes still occupy something.
func (o *Obstacle) cells(grid *uniformgrid.UniformGrid) []uniformgrid.CellIndex {
	if !o.overlaps(grid) {
		return nil
	}
	lo, loOK := clampedIndex(grid, o.Min)
	hi, hiOK := clampedIndex(grid, o.Max)
	if !loOK || !hiOK {
		return nil
	}

	seen := make(map[uniformgrid.CellIndex]bool)
	var cells []uniformgrid.CellIndex
	add := func(idx uniformgrid.CellIndex) {
		if !seen[idx] {
			seen[idx] = true
			cells = append(cells, idx)
		}
	}

	for k := lo.K; k <= hi.K; k++ {
		for i := lo.I; i <= hi.I; i++ {
			center, err := grid.GetCellCenter(uniformgrid.CellIndex{I: i, K: k})
			if err != nil {
				continue
			}
			if !planar.PolygonContains(o.Footprint, orb.Point{center.X, center.Z}) {
				continue
			}
			for j := lo.J; j <= hi.J; j++ {
				add(uniformgrid.CellIndex{I: i, J: j, K: k})
			}
		}
	}

	for _, ring := range o.Footprint {
		for _, p := range ring {
			idx, err := grid.GetCellIndex(uniformgrid.Vector3{X: p.X(), Y: grid.Origin().Y, Z: p.Y()})
			if err != nil {
				continue
			}
			for j := lo.J; j <= hi.J; j++ {
				add(uniformgrid.CellIndex{I: idx.I, J: j, K: idx.K})
			}
		}
	}
	return cells
}

// overlaps reports whether the obstacle's box intersects the grid's box
func (o *Obstacle) overlaps(grid *uniformgrid.UniformGrid) bool {
	lo := grid.Origin()
	hi := lo.Add(grid.Extent())
	return o.Min.X <= hi.X && o.Max.X >= lo.X &&
		o.Min.Y <= hi.Y && o.Max.Y >= lo.Y &&
		o.Min.Z <= hi.Z && o.Max.Z >= lo.Z
}

// clampedIndex snaps a position into the grid's box before indexing it.
// It fails only when the grid box is degenerate.
func clampedIndex(grid *uniformgrid.UniformGrid, p uniformgrid.Vector3) (uniformgrid.CellIndex, bool) {
	lo := grid.Origin()
	hi := lo.Add(grid.Extent())
	clamped := uniformgrid.Vector3{
		X: math.Min(math.Max(p.X, lo.X), hi.X),
		Y: math.Min(math.Max(p.Y, lo.Y), hi.Y),
		Z: math.Min(math.Max(p.Z, lo.Z), hi.Z),
	}
	idx, err := grid.GetCellIndex(clamped)
	return idx, err == nil
}
