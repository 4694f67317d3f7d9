package uniformgrid

// RoughShortestPathSmoothing removes grid-snapping kinks from a path by
// string pulling against the live occupancy. From each kept waypoint it
// jumps to the farthest later waypoint whose straight segment only crosses
// free cells. The first and last points are kept exactly, the result is
// never longer than the input, and smoothing a smoothed path changes
// nothing.
func (g *UniformGrid) RoughShortestPathSmoothing(path []Vector3) []Vector3 {
	return g.smooth(path, g.mask)
}

func (g *UniformGrid) smooth(path []Vector3, mask *Mask) []Vector3 {
	if len(path) <= 2 {
		return append([]Vector3(nil), path...)
	}

	last := len(path) - 1
	smoothed := []Vector3{path[0]}
	behind := 0
	for behind < last {
		next := behind + 1
		for front := last; front > behind+1; front-- {
			if g.lineOfSight(path[behind], path[front], mask) {
				next = front
				break
			}
		}
		smoothed = append(smoothed, path[next])
		behind = next
	}
	return smoothed
}

// lineOfSight samples the open segment a-b every smoothing step and checks
// that each sample falls in a free cell inside the grid.
func (g *UniformGrid) lineOfSight(a, b Vector3, mask *Mask) bool {
	length := a.Distance(b)
	if length == 0 {
		return true
	}
	dir := b.Sub(a).Scale(1 / length)
	for t := g.smoothingStep; t < length; t += g.smoothingStep {
		idx, err := g.GetCellIndex(a.Add(dir.Scale(t)))
		if err != nil || !mask.Get(idx) {
			return false
		}
	}
	return true
}
