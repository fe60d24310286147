package httpapi

import (
	"net/http"

	"jalapeno/internal/algofilter"
	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
	"jalapeno/internal/graphstore"
)

// handleGraphs lists the known edge (graph) collections with their current
// counts, the "graph collection listing" of spec.md §6.
func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	metas, err := s.Store.ListCollections(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	views := make([]collectionMetaView, 0, len(metas))
	for _, m := range metas {
		if m.Kind == graphstore.CollectionEdge {
			views = append(views, newCollectionMetaView(m))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": views})
}

func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request, collection string) (*graphmodel.Graph, bool) {
	if err := graphstore.ValidateCollection(collection); err != nil {
		WriteError(w, err)
		return nil, false
	}
	if !graphstore.IsEdgeCollection(collection) {
		WriteError(w, apperror.NewField(apperror.KindValidation, "collection is not a graph (edge) collection", "collection"))
		return nil, false
	}
	g, err := s.Store.LoadGraph(r.Context(), collection)
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	return g, true
}

// handleVertices returns the full vertex inventory of a graph collection.
func (s *Server) handleVertices(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	views := make([]*vertexView, 0, g.VertexCount())
	for _, id := range g.SortedVertexIDs() {
		v, _ := g.GetVertex(id)
		views = append(views, newVertexView(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"vertices": views, "count": len(views)})
}

// handleVerticesByAlgo returns the vertices of a graph collection that
// participate in the requested Flex-Algorithm (spec.md §4.2).
func (s *Server) handleVerticesByAlgo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	algo := queryUint32(r, "algo", 0)
	views := make([]*vertexView, 0)
	for _, id := range g.SortedVertexIDs() {
		v, _ := g.GetVertex(id)
		if algofilter.Participates(v, algo) {
			views = append(views, newVertexView(v))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"vertices": views, "count": len(views), "algo": algo})
}

// summaryView is the compact vertex projection of /vertices/summary.
type summaryView struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

// handleVerticesSummary returns a compact vertex view, optionally filtered
// to one underlying vertex_collection.
func (s *Server) handleVerticesSummary(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)
	vertexCollection := r.URL.Query().Get("vertex_collection")

	views := make([]summaryView, 0)
	for _, id := range g.SortedVertexIDs() {
		if vertexCollection != "" && id.Collection() != vertexCollection {
			continue
		}
		v, _ := g.GetVertex(id)
		views = append(views, summaryView{ID: v.ID.String(), Kind: v.Kind.String(), Name: v.Name})
		if limit > 0 && len(views) >= limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"vertices": views, "count": len(views)})
}

// handleEdges returns the full edge projection of a graph collection.
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)
	views := make([]*edgeView, 0)
	for _, e := range g.Edges {
		views = append(views, newEdgeView(e))
		if limit > 0 && len(views) >= limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"edges": views, "count": len(views)})
}

// handleEdgesDetail is the same projection as handleEdges; spec.md §6 lists
// it separately because the teacher's route returns the raw store document
// rather than the summarized one. Since graphstore already hands back a
// fully-typed graphmodel.Edge, both endpoints serialize identically here.
func (s *Server) handleEdgesDetail(w http.ResponseWriter, r *http.Request) {
	s.handleEdges(w, r)
}

// handleTopology returns the full node-to-node subgraph: every vertex and
// edge of the collection.
func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	vviews := make([]*vertexView, 0, g.VertexCount())
	for _, id := range g.SortedVertexIDs() {
		v, _ := g.GetVertex(id)
		vviews = append(vviews, newVertexView(v))
	}
	eviews := make([]*edgeView, 0, g.EdgeCount())
	for _, e := range g.Edges {
		eviews = append(eviews, newEdgeView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"vertices": vviews, "edges": eviews})
}

// handleTopologyNodes returns only the vertex set of the topology,
// optionally including every attribute field (include_all_fields).
func (s *Server) handleTopologyNodes(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	includeAll := queryBool(r, "include_all_fields", false)
	views := make([]*vertexView, 0, g.VertexCount())
	for _, id := range g.SortedVertexIDs() {
		v, _ := g.GetVertex(id)
		view := newVertexView(v)
		if !includeAll {
			view.Attrs = nil
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": views, "count": len(views)})
}

// handleTopologyNodesAlgo is handleTopologyNodes narrowed to one algo.
func (s *Server) handleTopologyNodesAlgo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGraph(w, r, r.PathValue("collection"))
	if !ok {
		return
	}
	algo := queryUint32(r, "algo", 0)
	includeAll := queryBool(r, "include_all_fields", false)
	views := make([]*vertexView, 0)
	for _, id := range g.SortedVertexIDs() {
		v, _ := g.GetVertex(id)
		if !algofilter.Participates(v, algo) {
			continue
		}
		view := newVertexView(v)
		if !includeAll {
			view.Attrs = nil
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodes": views, "count": len(views), "algo": algo})
}
