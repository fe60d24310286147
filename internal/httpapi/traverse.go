package httpapi

import (
	"net/http"

	"jalapeno/internal/graphmodel"
)

// maxWalks bounds how many enumerated walks a traverse call returns, so a
// densely connected collection can't turn one request into an unbounded
// response. Exceeding it truncates rather than errors (spec.md §6 treats
// traverse as a best-effort enumeration, not an exhaustive guarantee).
const maxWalks = 500

// walk is one enumerated path from source, collected by depth-bounded DFS.
type walk struct {
	hops []graphmodel.Hop
}

// enumerateWalks performs a depth-bounded DFS from source over g, collecting
// every simple walk whose hop count falls in [minDepth, maxDepth] and, when
// destination is non-empty, that ends there.
func enumerateWalks(g *graphmodel.Graph, source, destination graphmodel.VertexID, minDepth, maxDepth int, dir graphmodel.Direction) []walk {
	var out []walk
	visited := map[graphmodel.VertexID]bool{source: true}
	srcVertex, ok := g.GetVertex(source)
	if !ok {
		return nil
	}
	current := []graphmodel.Hop{{Vertex: srcVertex}}

	var dfs func(at graphmodel.VertexID, depth int)
	dfs = func(at graphmodel.VertexID, depth int) {
		if len(out) >= maxWalks {
			return
		}
		if depth >= minDepth && (destination == "" || at == destination) {
			cp := make([]graphmodel.Hop, len(current))
			copy(cp, current)
			out = append(out, walk{hops: cp})
		}
		if depth >= maxDepth {
			return
		}
		for _, e := range g.Neighbors(at, dir) {
			next := graphmodel.Other(e, at)
			if visited[next] {
				continue
			}
			nv, ok := g.GetVertex(next)
			if !ok {
				continue
			}
			visited[next] = true
			current[len(current)-1].Edge = e
			current = append(current, graphmodel.Hop{Vertex: nv})
			dfs(next, depth+1)
			current = current[:len(current)-1]
			current[len(current)-1].Edge = nil
			visited[next] = false
			if len(out) >= maxWalks {
				return
			}
		}
	}
	dfs(source, 0)
	return out
}

// handleTraverse enumerates every walk from source within [min_depth,
// max_depth] hops, optionally constrained to paths ending at destination.
func (s *Server) handleTraverse(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	source, err := requireQuery(r, "source")
	if err != nil {
		WriteError(w, err)
		return
	}
	destination := graphmodel.VertexID(r.URL.Query().Get("destination"))
	minDepth := queryInt(r, "min_depth", 1)
	maxDepth := queryInt(r, "max_depth", 5)
	dir, err := direction(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if dir == graphmodel.DirectionOutbound && r.URL.Query().Get("direction") == "" {
		dir = graphmodel.DirectionAny
	}

	walks := enumerateWalks(g, graphmodel.VertexID(source), destination, minDepth, maxDepth, dir)
	views := make([][]hopView, 0, len(walks))
	for _, wk := range walks {
		views = append(views, newHopViews(wk.hops))
	}
	writeJSON(w, http.StatusOK, map[string]any{"walks": views, "count": len(views), "truncated": len(walks) >= maxWalks})
}

// handleTraverseSimple is handleTraverse's lighter projection: vertex id
// sequences only, no embedded edge documents.
func (s *Server) handleTraverseSimple(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	source, err := requireQuery(r, "source")
	if err != nil {
		WriteError(w, err)
		return
	}
	destination := graphmodel.VertexID(r.URL.Query().Get("destination"))
	minDepth := queryInt(r, "min_depth", 1)
	maxDepth := queryInt(r, "max_depth", 5)
	dir, err := direction(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if dir == graphmodel.DirectionOutbound && r.URL.Query().Get("direction") == "" {
		dir = graphmodel.DirectionAny
	}

	walks := enumerateWalks(g, graphmodel.VertexID(source), destination, minDepth, maxDepth, dir)
	views := make([][]string, 0, len(walks))
	for _, wk := range walks {
		ids := make([]string, 0, len(wk.hops))
		for _, h := range wk.hops {
			ids = append(ids, h.Vertex.ID.String())
		}
		views = append(views, ids)
	}
	writeJSON(w, http.StatusOK, map[string]any{"walks": views, "count": len(views), "truncated": len(walks) >= maxWalks})
}

// handleNeighbors returns the immediate neighborhood of source: every
// vertex reachable within depth hops plus the edges used to reach them.
func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	source, err := requireQuery(r, "source")
	if err != nil {
		WriteError(w, err)
		return
	}
	depth := queryInt(r, "depth", 1)
	dir, err := direction(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	type frontierItem struct {
		id   graphmodel.VertexID
		dist int
	}
	visited := map[graphmodel.VertexID]bool{graphmodel.VertexID(source): true}
	queue := []frontierItem{{id: graphmodel.VertexID(source), dist: 0}}
	var vertices []*graphmodel.Vertex
	var edges []*graphmodel.Edge

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.dist >= depth {
			continue
		}
		for _, e := range g.Neighbors(item.id, dir) {
			next := graphmodel.Other(e, item.id)
			edges = append(edges, e)
			if visited[next] {
				continue
			}
			visited[next] = true
			if nv, ok := g.GetVertex(next); ok {
				vertices = append(vertices, nv)
			}
			queue = append(queue, frontierItem{id: next, dist: item.dist + 1})
		}
	}

	vviews := make([]*vertexView, 0, len(vertices))
	for _, v := range vertices {
		vviews = append(vviews, newVertexView(v))
	}
	eviews := make([]*edgeView, 0, len(edges))
	for _, e := range edges {
		eviews = append(eviews, newEdgeView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"neighbors": vviews, "edges": eviews, "count": len(vviews)})
}
