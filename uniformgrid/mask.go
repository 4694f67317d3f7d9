package uniformgrid

// Mask is a dense free/occupied flag per cell. true means free.
type Mask struct {
	dims  Dimensions
	cells []bool
}

// NewMask creates a mask with every cell set to free
func NewMask(dims Dimensions, free bool) *Mask {
	m := &Mask{dims: dims, cells: make([]bool, dims.Count())}
	if free {
		for i := range m.cells {
			m.cells[i] = true
		}
	}
	return m
}

// Dimensions returns the mask's shape
func (m *Mask) Dimensions() Dimensions {
	return m.dims
}

// Get reports whether idx is free. Indices outside the mask are occupied.
func (m *Mask) Get(idx CellIndex) bool {
	if !m.dims.Contains(idx) {
		return false
	}
	return m.cells[m.dims.linear(idx)]
}

// Set marks idx free or occupied. Indices outside the mask are ignored.
func (m *Mask) Set(idx CellIndex, free bool) {
	if !m.dims.Contains(idx) {
		return
	}
	m.cells[m.dims.linear(idx)] = free
}

// Clone returns an independent copy
func (m *Mask) Clone() *Mask {
	cells := make([]bool, len(m.cells))
	copy(cells, m.cells)
	return &Mask{dims: m.dims, cells: cells}
}

func (m *Mask) free(id VertexID) bool {
	return m.cells[id]
}
