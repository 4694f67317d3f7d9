package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RemoveContainedObstacles drops obstacles that lie entirely inside another
// obstacle of the same set. They would only occupy cells that are occupied
// anyway, and registering them costs a rasterization each.
func RemoveContainedObstacles(obstacles []Obstacle) []Obstacle {
	if len(obstacles) <= 1 {
		return obstacles
	}

	contained := make([]bool, len(obstacles))
	for i := range obstacles {
		if contained[i] {
			continue
		}
		for j := range obstacles {
			if i == j || contained[j] {
				continue
			}

			// Check if obstacle i is contained in obstacle j
			if isObstacleContainedIn(&obstacles[i], &obstacles[j]) {
				contained[i] = true
				break
			}
		}
	}

	result := make([]Obstacle, 0, len(obstacles))
	for i, o := range obstacles {
		if !contained[i] {
			result = append(result, o)
		}
	}
	return result
}

// isObstacleContainedIn checks if obstacle a is fully inside obstacle b
func isObstacleContainedIn(a, b *Obstacle) bool {
	// Quick bounding box check first
	if !isBoxContained(a, b) {
		return false
	}
	if len(b.Footprint) == 0 {
		return true
	}

	outline := footprintOutline(a)
	for _, p := range outline {
		if !planar.PolygonContains(b.Footprint, p) {
			return false
		}
	}

	// All corners inside can still cross a concave notch or a hole
	for i := 0; i+1 < len(outline); i++ {
		for _, ring := range b.Footprint {
			for k := 0; k+1 < len(ring); k++ {
				if segmentsCross(outline[i], outline[i+1], ring[k], ring[k+1]) {
					return false
				}
			}
		}
	}
	return true
}

func isBoxContained(a, b *Obstacle) bool {
	return a.Min.X >= b.Min.X && a.Max.X <= b.Max.X &&
		a.Min.Y >= b.Min.Y && a.Max.Y <= b.Max.Y &&
		a.Min.Z >= b.Min.Z && a.Max.Z <= b.Max.Z
}

// footprintOutline returns the closed outer ring of an obstacle in the XZ
// plane, using the box corners when it has no footprint
func footprintOutline(o *Obstacle) orb.Ring {
	if len(o.Footprint) > 0 {
		ring := o.Footprint[0]
		if !ring.Closed() {
			ring = append(ring.Clone(), ring[0])
		}
		return ring
	}
	return orb.Ring{
		{o.Min.X, o.Min.Z},
		{o.Max.X, o.Min.Z},
		{o.Max.X, o.Max.Z},
		{o.Min.X, o.Max.Z},
		{o.Min.X, o.Min.Z},
	}
}

// segmentsCross reports whether segments p1-p2 and p3-p4 properly intersect.
// Touching at an endpoint or running along each other does not count.
func segmentsCross(p1, p2, p3, p4 orb.Point) bool {
	d1 := crossProduct(p3, p4, p1)
	d2 := crossProduct(p3, p4, p2)
	d3 := crossProduct(p1, p2, p3)
	d4 := crossProduct(p1, p2, p4)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// crossProduct is the z component of (b-a) x (c-a)
func crossProduct(a, b, c orb.Point) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}
