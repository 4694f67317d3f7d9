package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyFootprint reduces footprint complexity using Douglas-Peucker.
// Rings that would collapse below a triangle keep their original shape so
// a simplified obstacle never disappears.
func SimplifyFootprint(footprint orb.Polygon, epsilon float64) orb.Polygon {
	if epsilon <= 0 {
		return footprint
	}

	simplified := make(orb.Polygon, 0, len(footprint))
	for _, ring := range footprint {
		if len(ring) <= 4 {
			simplified = append(simplified, ring.Clone())
			continue
		}
		reduced := simplify.DouglasPeucker(epsilon).Ring(ring.Clone())
		if len(reduced) < 4 {
			reduced = ring.Clone()
		}
		simplified = append(simplified, reduced)
	}
	return simplified
}

// EstimateSimplificationEpsilon suggests an epsilon for a grid: detail
// smaller than a fraction of a cell cannot change which cell centers a
// footprint covers by much.
func EstimateSimplificationEpsilon(sideLength float64) float64 {
	if sideLength <= 0 {
		return 0
	}
	return sideLength / 4
}
