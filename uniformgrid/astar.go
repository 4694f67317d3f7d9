package uniformgrid

import (
	"container/heap"
)

// searchNode represents a vertex on the A* frontier
type searchNode struct {
	vertex *Vertex
	G      float64 // Cost from start to this node
	F      float64 // Total cost (G + vertex heuristic)
	parent *searchNode
	index  int // Index in the heap
}

// priorityQueue implements heap.Interface for the A* open set
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	// Prefer nodes closer to the goal
	return pq[i].vertex.Heuristic < pq[j].vertex.Heuristic
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*searchNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// GetMinimumPath runs A* from start to finish over graph. Heuristics are
// read from Vertex.Heuristic and must already be computed relative to finish.
//
// The returned path excludes start and is ordered goal-first: path[0] is
// finish and the last element is the vertex adjacent to start. The boolean
// is false when finish cannot be reached.
func GetMinimumPath(start, finish *Vertex, graph *Graph) ([]*Vertex, bool) {
	if graph == nil || start == nil || finish == nil {
		return nil, false
	}
	if !graph.Contains(start.ID) || !graph.Contains(finish.ID) {
		return nil, false
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	startNode := &searchNode{vertex: start, G: 0, F: start.Heuristic}
	heap.Push(openSet, startNode)

	closedSet := make(map[VertexID]bool)
	openSetMap := map[VertexID]*searchNode{start.ID: startNode}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.vertex.ID)

		if current.vertex.ID == finish.ID {
			path := []*Vertex{}
			for node := current; node.parent != nil; node = node.parent {
				path = append(path, node.vertex)
			}
			return path, true
		}

		closedSet[current.vertex.ID] = true

		for _, edge := range graph.Neighbors(current.vertex) {
			if closedSet[edge.To] || !graph.Contains(edge.To) {
				continue
			}

			tentativeG := current.G + edge.Weight

			neighbor, exists := openSetMap[edge.To]
			if !exists {
				v := graph.Vertex(edge.To)
				neighbor = &searchNode{
					vertex: v,
					G:      tentativeG,
					F:      tentativeG + v.Heuristic,
					parent: current,
				}
				heap.Push(openSet, neighbor)
				openSetMap[edge.To] = neighbor
			} else if tentativeG < neighbor.G {
				neighbor.G = tentativeG
				neighbor.F = tentativeG + neighbor.vertex.Heuristic
				neighbor.parent = current
				heap.Fix(openSet, neighbor.index)
			}
		}
	}

	return nil, false
}
