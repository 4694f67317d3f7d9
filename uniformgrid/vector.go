package uniformgrid

import "math"

// Vector3 is a world-space position. Y is the vertical axis.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + o
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v multiplied by s
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the Euclidean norm of v
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance calculates Euclidean distance between two points
func (v Vector3) Distance(o Vector3) float64 {
	return v.Sub(o).Length()
}

// Manhattan calculates |dx| + |dy| + |dz| between two points
func (v Vector3) Manhattan(o Vector3) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y) + math.Abs(v.Z-o.Z)
}

// PathLength sums the Euclidean length of every segment of a polyline
func PathLength(path []Vector3) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}

// CellIndex is a lattice coordinate (i, j, k) along X, Y and Z.
type CellIndex struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

// Dimensions holds the number of cells along each axis.
type Dimensions struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Count returns the total number of cells
func (d Dimensions) Count() int {
	return d.X * d.Y * d.Z
}

// Contains reports whether idx lies inside the lattice
func (d Dimensions) Contains(idx CellIndex) bool {
	return idx.I >= 0 && idx.I < d.X &&
		idx.J >= 0 && idx.J < d.Y &&
		idx.K >= 0 && idx.K < d.Z
}

// linear flattens idx into an arena offset. X varies fastest.
func (d Dimensions) linear(idx CellIndex) int {
	return (idx.K*d.Y+idx.J)*d.X + idx.I
}

func (d Dimensions) cell(id int) CellIndex {
	i := id % d.X
	j := (id / d.X) % d.Y
	k := id / (d.X * d.Y)
	return CellIndex{I: i, J: j, K: k}
}
