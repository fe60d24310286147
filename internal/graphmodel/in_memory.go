package graphmodel

import (
	"sort"
	"sync"
)

// Graph is the in-memory, mutex-guarded working copy of one edge collection
// and the vertex collections its endpoints reference — the Path Engine's
// unit of work. Grounded on the teacher's pkg/domain.Graph (adjacency maps,
// RWMutex, Clone), generalized from int64 node ids to string VertexID.
type Graph struct {
	Name     string
	Vertices map[VertexID]*Vertex
	Edges    map[EdgeID]*Edge

	outgoing map[VertexID][]EdgeID
	incoming map[VertexID][]EdgeID

	mu sync.RWMutex
}

// NewGraph returns an empty, ready-to-populate Graph.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:     name,
		Vertices: make(map[VertexID]*Vertex),
		Edges:    make(map[EdgeID]*Edge),
		outgoing: make(map[VertexID][]EdgeID),
		incoming: make(map[VertexID][]EdgeID),
	}
}

func (g *Graph) AddVertex(v *Vertex) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Vertices[v.ID] = v
}

func (g *Graph) AddEdge(e *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Edges[e.ID] = e
	g.outgoing[e.From] = append(g.outgoing[e.From], e.ID)
	g.incoming[e.To] = append(g.incoming[e.To], e.ID)
}

func (g *Graph) GetVertex(id VertexID) (*Vertex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.Vertices[id]
	return v, ok
}

func (g *Graph) GetEdge(id EdgeID) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.Edges[id]
	return e, ok
}

// Neighbors returns the edges leaving v in the direction requested. For
// DirectionAny both outgoing and incoming edges are returned, treating the
// graph as undirected for search purposes (spec.md §4.3 edge-case policy).
func (g *Graph) Neighbors(v VertexID, dir Direction) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ids []EdgeID
	switch dir {
	case DirectionInbound:
		ids = g.incoming[v]
	case DirectionAny:
		ids = append(append([]EdgeID{}, g.outgoing[v]...), g.incoming[v]...)
	default:
		ids = g.outgoing[v]
	}

	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Edges[id])
	}
	return out
}

// Other returns the endpoint of e that is not v — used when walking an edge
// found via either direction's adjacency index.
func Other(e *Edge, v VertexID) VertexID {
	if e.From == v {
		return e.To
	}
	return e.From
}

func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.Vertices)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.Edges)
}

// SortedVertexIDs returns every vertex id in deterministic (lexical) order,
// used to seed algorithms that need reproducible iteration.
func (g *Graph) SortedVertexIDs() []VertexID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]VertexID, 0, len(g.Vertices))
	for id := range g.Vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
