// Package pathengine implements the Path Engine of spec.md §4.3:
// shortest-path and K-shortest-path search over a labeled property graph,
// with pluggable edge weights, direction semantics, and algo/sovereignty
// post-filtering.
//
// The single-source search (dijkstraResult below) is grounded on
// services/solver-svc/internal/algorithms/dijkstra.go: a container/heap
// binary min-heap, deterministic tie-breaking on stale-entry skip, and
// periodic ctx.Done() polling, generalized from int64 node ids and
// ResidualGraph.Capacity/Cost fields to graphmodel.VertexID and a pluggable
// weight function.
package pathengine

import (
	"container/heap"
	"context"

	"jalapeno/internal/graphmodel"
)

const epsilon = 1e-9

// dijkstraResult carries distances and predecessor pointers from a single
// source; it is the common basis for both single-shortest-path and each spur
// search Yen's algorithm performs.
type dijkstraResult struct {
	Distances map[graphmodel.VertexID]float64
	ParentVia map[graphmodel.VertexID]*graphmodel.Edge // edge used to reach this vertex
	Canceled  bool
}

type pqItem struct {
	vertex   graphmodel.VertexID
	distance float64
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	// Deterministic tie-break: lexically smaller vertex id first, so that
	// among equal-weight paths the search visits a stable, reproducible
	// order (spec.md §4.3 tie-breaking).
	return pq[i].vertex < pq[j].vertex
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// dijkstra runs a single-source weighted search from source. excludedVertex
// and excludedEdge (both may be nil) let Yen's algorithm forbid the root
// path's interior vertices and the already-found spur edge, without
// mutating the shared graph.
func dijkstra(
	ctx context.Context,
	g *graphmodel.Graph,
	source graphmodel.VertexID,
	dir graphmodel.Direction,
	weight graphmodel.Weight,
	excludedVertex map[graphmodel.VertexID]struct{},
	excludedEdge map[graphmodel.EdgeID]struct{},
) *dijkstraResult {
	dist := make(map[graphmodel.VertexID]float64)
	parentVia := make(map[graphmodel.VertexID]*graphmodel.Edge)
	dist[source] = 0

	pq := make(priorityQueue, 0, g.VertexCount())
	heap.Push(&pq, &pqItem{vertex: source, distance: 0})

	const checkInterval = 100
	iterations := 0

	for pq.Len() > 0 {
		if iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return &dijkstraResult{Distances: dist, ParentVia: parentVia, Canceled: true}
			default:
			}
		}
		iterations++

		current := heap.Pop(&pq).(*pqItem)
		u := current.vertex

		if d, ok := dist[u]; ok && current.distance > d+epsilon {
			continue // stale entry
		}
		if _, bad := excludedVertex[u]; bad && u != source {
			continue
		}

		for _, edge := range g.Neighbors(u, dir) {
			if _, bad := excludedEdge[edge.ID]; bad {
				continue
			}
			v := graphmodel.Other(edge, u)
			if _, bad := excludedVertex[v]; bad {
				continue
			}

			newDist := dist[u] + weight.Value(edge)
			if existing, ok := dist[v]; !ok || newDist < existing-epsilon {
				dist[v] = newDist
				parentVia[v] = edge
				heap.Push(&pq, &pqItem{vertex: v, distance: newDist})
			}
		}
	}

	return &dijkstraResult{Distances: dist, ParentVia: parentVia, Canceled: false}
}

// reconstruct walks parentVia back from target to source, returning the
// ordered vertex/edge sequence, or nil if target is unreached.
func reconstruct(g *graphmodel.Graph, result *dijkstraResult, source, target graphmodel.VertexID) []graphmodel.Hop {
	if target == source {
		v, _ := g.GetVertex(source)
		return []graphmodel.Hop{{Vertex: v}}
	}
	if _, ok := result.Distances[target]; !ok {
		return nil
	}

	var edges []*graphmodel.Edge
	cur := target
	for cur != source {
		edge, ok := result.ParentVia[cur]
		if !ok {
			return nil
		}
		edges = append(edges, edge)
		cur = graphmodel.Other(edge, cur)
	}

	// edges were collected target->source; reverse to source->target.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	hops := make([]graphmodel.Hop, 0, len(edges)+1)
	walker := source
	for _, edge := range edges {
		v, _ := g.GetVertex(walker)
		hops = append(hops, graphmodel.Hop{Vertex: v, Edge: edge})
		walker = graphmodel.Other(edge, walker)
	}
	v, _ := g.GetVertex(walker)
	hops = append(hops, graphmodel.Hop{Vertex: v})
	return hops
}

func pathVertexIDs(hops []graphmodel.Hop) []graphmodel.VertexID {
	ids := make([]graphmodel.VertexID, 0, len(hops))
	for _, h := range hops {
		ids = append(ids, h.Vertex.ID)
	}
	return ids
}

func totalWeight(hops []graphmodel.Hop, weight graphmodel.Weight) float64 {
	var total float64
	for _, h := range hops {
		if h.Edge != nil {
			total += weight.Value(h.Edge)
		}
	}
	return total
}
