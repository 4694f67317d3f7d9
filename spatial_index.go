package main

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"grid-planner/uniformgrid"
)

// minExtent pads flat obstacles; rtreego rejects zero-length sides.
const minExtent = 1e-6

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	obstacle *Obstacle
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// ObstacleIndex answers "which registered obstacles touch this box" in 3D
type ObstacleIndex struct {
	tree    *rtreego.Rtree
	entries map[string]*obstacleEntry
}

// NewObstacleIndex creates an empty index
func NewObstacleIndex() *ObstacleIndex {
	return &ObstacleIndex{
		tree:    rtreego.NewTree(3, 25, 50), // 3D, min 25, max 50 entries per node
		entries: make(map[string]*obstacleEntry),
	}
}

// Insert adds an obstacle, replacing any entry with the same id
func (si *ObstacleIndex) Insert(o *Obstacle) error {
	bbox, err := calculateBoundingBox(o.Min, o.Max)
	if err != nil {
		return err
	}
	si.Remove(o.ID)

	entry := &obstacleEntry{obstacle: o, bbox: bbox}
	si.tree.Insert(entry)
	si.entries[o.ID] = entry
	return nil
}

// Remove deletes the obstacle with the given id and reports whether it existed
func (si *ObstacleIndex) Remove(id string) bool {
	entry, ok := si.entries[id]
	if !ok {
		return false
	}
	delete(si.entries, id)
	return si.tree.Delete(entry)
}

// QueryRegion returns obstacles whose boxes intersect the given box
func (si *ObstacleIndex) QueryRegion(lo, hi uniformgrid.Vector3) []*Obstacle {
	bbox, err := calculateBoundingBox(lo, hi)
	if err != nil {
		return []*Obstacle{}
	}

	results := si.tree.SearchIntersect(bbox)
	obstacles := make([]*Obstacle, 0, len(results))
	for _, item := range results {
		entry := item.(*obstacleEntry)
		obstacles = append(obstacles, entry.obstacle)
	}
	return obstacles
}

// Len returns the number of indexed obstacles
func (si *ObstacleIndex) Len() int {
	return len(si.entries)
}

// calculateBoundingBox converts two corners into an R-tree rectangle
func calculateBoundingBox(a, b uniformgrid.Vector3) (rtreego.Rect, error) {
	lo := rtreego.Point{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
	lengths := []float64{
		max(math.Abs(a.X-b.X), minExtent),
		max(math.Abs(a.Y-b.Y), minExtent),
		max(math.Abs(a.Z-b.Z), minExtent),
	}
	return rtreego.NewRect(lo, lengths)
}

// expandBox grows a box by margin on every side
func expandBox(lo, hi uniformgrid.Vector3, margin float64) (uniformgrid.Vector3, uniformgrid.Vector3) {
	m := uniformgrid.Vector3{X: margin, Y: margin, Z: margin}
	return lo.Sub(m), hi.Add(m)
}
