package uniformgrid

// VertexID identifies a vertex in the grid's arena. It equals the linear
// index of the vertex's cell.
type VertexID int

// Edge represents a directed connection to another vertex with a cost
type Edge struct {
	To     VertexID // Destination vertex
	Weight float64  // Euclidean distance, scaled for upward moves
}

// Vertex is the graph-side identity of one cell.
type Vertex struct {
	ID VertexID

	// Heuristic is the estimated remaining cost to the current search goal.
	// It is only meaningful during a single search.
	Heuristic float64

	edges []Edge
}

// IncidentEdge describes one free neighbor and the weights of the edges
// running out to it and back in from it.
type IncidentEdge struct {
	Neighbor *Vertex
	Out      float64
	In       float64
}

// AddEdge adds an edge to target, replacing the weight of an existing one
func (v *Vertex) AddEdge(target VertexID, weight float64) {
	for i := range v.edges {
		if v.edges[i].To == target {
			v.edges[i].Weight = weight
			return
		}
	}
	v.edges = append(v.edges, Edge{To: target, Weight: weight})
}

// RemoveEdge removes the edge to target and reports whether one existed
func (v *Vertex) RemoveEdge(target VertexID) bool {
	for i := range v.edges {
		if v.edges[i].To == target {
			last := len(v.edges) - 1
			v.edges[i] = v.edges[last]
			v.edges = v.edges[:last]
			return true
		}
	}
	return false
}

// Edges returns the vertex's outgoing edges. The slice must not be modified.
func (v *Vertex) Edges() []Edge {
	return v.edges
}

// CreateIncidentEdges connects v with every neighbor in both directions.
// The caller passes only neighbors that are currently free.
func (v *Vertex) CreateIncidentEdges(neighbors []IncidentEdge) {
	for _, n := range neighbors {
		v.AddEdge(n.Neighbor.ID, n.Out)
		n.Neighbor.AddEdge(v.ID, n.In)
	}
}

// RemoveIncidentEdges drops every edge leaving v and every edge from the
// given neighbors into v.
func (v *Vertex) RemoveIncidentEdges(neighbors []*Vertex) {
	v.edges = v.edges[:0]
	for _, n := range neighbors {
		n.RemoveEdge(v.ID)
	}
}

// Graph is the searchable view over a vertex arena. It does not own the
// vertices; the grid decides which of them are searchable and how they
// connect.
type Graph struct {
	vertices []Vertex
	contains func(VertexID) bool
	edges    func(*Vertex) []Edge
}

// NewGraph creates a view whose adjacency is the stored edge list of each vertex
func NewGraph(vertices []Vertex, contains func(VertexID) bool) *Graph {
	return &Graph{
		vertices: vertices,
		contains: contains,
		edges:    (*Vertex).Edges,
	}
}

// Contains reports whether id is part of the searchable set
func (g *Graph) Contains(id VertexID) bool {
	if int(id) < 0 || int(id) >= len(g.vertices) {
		return false
	}
	return g.contains(id)
}

// Vertex returns the vertex with the given id
func (g *Graph) Vertex(id VertexID) *Vertex {
	return &g.vertices[id]
}

// Neighbors returns the edges leaving v that stay inside the view
func (g *Graph) Neighbors(v *Vertex) []Edge {
	return g.edges(v)
}
