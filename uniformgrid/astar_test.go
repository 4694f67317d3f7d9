package uniformgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// diamond builds 0 -> {1, 2} -> 3 where the route through 1 is cheaper.
func diamond() []Vertex {
	vertices := make([]Vertex, 4)
	for i := range vertices {
		vertices[i].ID = VertexID(i)
	}
	vertices[0].AddEdge(1, 1)
	vertices[0].AddEdge(2, 1)
	vertices[1].AddEdge(3, 1)
	vertices[2].AddEdge(3, 5)
	return vertices
}

func all(VertexID) bool { return true }

func ids(path []*Vertex) []VertexID {
	out := make([]VertexID, len(path))
	for i, v := range path {
		out[i] = v.ID
	}
	return out
}

func TestGetMinimumPath_GoalFirstWithoutStart(t *testing.T) {
	vertices := diamond()
	graph := NewGraph(vertices, all)

	path, found := GetMinimumPath(&vertices[0], &vertices[3], graph)
	assert.True(t, found)
	assert.Equal(t, []VertexID{3, 1}, ids(path))
}

func TestGetMinimumPath_RespectsView(t *testing.T) {
	vertices := diamond()
	graph := NewGraph(vertices, func(id VertexID) bool { return id != 1 })

	path, found := GetMinimumPath(&vertices[0], &vertices[3], graph)
	assert.True(t, found)
	assert.Equal(t, []VertexID{3, 2}, ids(path))
}

func TestGetMinimumPath_NotFound(t *testing.T) {
	vertices := diamond()
	graph := NewGraph(vertices, all)

	path, found := GetMinimumPath(&vertices[3], &vertices[0], graph)
	assert.False(t, found)
	assert.Empty(t, path)

	outside := NewGraph(vertices, func(id VertexID) bool { return id != 3 })
	_, found = GetMinimumPath(&vertices[0], &vertices[3], outside)
	assert.False(t, found, "finish outside the view is unreachable")
}

func TestGetMinimumPath_StartIsFinish(t *testing.T) {
	vertices := diamond()
	graph := NewGraph(vertices, all)

	path, found := GetMinimumPath(&vertices[2], &vertices[2], graph)
	assert.True(t, found)
	assert.Empty(t, path)
}

func TestGetMinimumPath_UsesHeuristic(t *testing.T) {
	vertices := diamond()
	// An admissible heuristic must not change the answer
	vertices[1].Heuristic = 1
	vertices[2].Heuristic = 1
	graph := NewGraph(vertices, all)

	path, found := GetMinimumPath(&vertices[0], &vertices[3], graph)
	assert.True(t, found)
	assert.Equal(t, []VertexID{3, 1}, ids(path))
}

func TestVertex_EdgeMaintenance(t *testing.T) {
	vertices := make([]Vertex, 3)
	for i := range vertices {
		vertices[i].ID = VertexID(i)
	}
	v := &vertices[0]

	v.AddEdge(1, 2)
	v.AddEdge(1, 3)
	assert.Equal(t, []Edge{{To: 1, Weight: 3}}, v.Edges(), "re-adding replaces the weight")

	v.CreateIncidentEdges([]IncidentEdge{{Neighbor: &vertices[2], Out: 1, In: 4}})
	assert.Len(t, v.Edges(), 2)
	assert.Equal(t, []Edge{{To: 0, Weight: 4}}, vertices[2].Edges())

	v.RemoveIncidentEdges([]*Vertex{&vertices[1], &vertices[2]})
	assert.Empty(t, v.Edges())
	assert.Empty(t, vertices[2].Edges())
	assert.False(t, v.RemoveEdge(1))
}
