package httpapi

import (
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphstore"
)

const statusHealthy = "HEALTHY"

// handleHealth is the liveness document (spec.md §6's GET /health), mirroring
// gateway-svc/cmd/main.go's handleHealth's flat {"status": "ok"} shape but
// named "HEALTHY" to match the teacher's gateway.go status constant.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusHealthy})
}

// handleReady checks the Graph Store Adapter is reachable, the way
// gateway-svc/cmd/main.go's handleReady checks clientManager.CheckHealth.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleInstances lists the edge (graph) collection names (spec.md §6).
func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(graphstore.KnownCollections))
	for name, meta := range graphstore.KnownCollections {
		if meta.Kind == graphstore.CollectionEdge {
			names = append(names, name)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"instances": names})
}

// handleCollections lists every known collection, optionally filtered to
// edge (graph) collections only via filter_graphs.
func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	metas, err := s.Store.ListCollections(ctx)
	if err != nil {
		WriteError(w, err)
		return
	}
	filterGraphs := queryBool(r, "filter_graphs", false)
	views := make([]collectionMetaView, 0, len(metas))
	for _, m := range metas {
		if filterGraphs && m.Kind != graphstore.CollectionEdge {
			continue
		}
		views = append(views, newCollectionMetaView(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": views})
}

// handleCollectionDocs returns the documents of one collection (spec.md §6:
// limit?, skip?, filter_key?).
func (s *Server) handleCollectionDocs(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := graphstore.ValidateCollection(name); err != nil {
		WriteError(w, err)
		return
	}
	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)
	filterKey := r.URL.Query().Get("filter_key")

	vertices, err := s.Store.ListVertices(r.Context(), name, limit, skip)
	if err != nil {
		WriteError(w, err)
		return
	}
	views := make([]*vertexView, 0, len(vertices))
	for _, v := range vertices {
		if filterKey != "" && v.ID.Key() != filterKey {
			continue
		}
		views = append(views, newVertexView(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": views, "count": len(views)})
}

// handleCollectionKeys returns only the document keys of one collection.
func (s *Server) handleCollectionKeys(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := graphstore.ValidateCollection(name); err != nil {
		WriteError(w, err)
		return
	}
	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)

	vertices, err := s.Store.ListVertices(r.Context(), name, limit, skip)
	if err != nil {
		WriteError(w, err)
		return
	}
	keys := make([]string, 0, len(vertices))
	for _, v := range vertices {
		keys = append(keys, v.ID.Key())
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

// handleCollectionInfo returns one collection's metadata.
func (s *Server) handleCollectionInfo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := graphstore.ValidateCollection(name); err != nil {
		WriteError(w, err)
		return
	}
	metas, err := s.Store.ListCollections(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	for _, m := range metas {
		if m.Name == name {
			writeJSON(w, http.StatusOK, newCollectionMetaView(m))
			return
		}
	}
	WriteError(w, apperror.ErrNotFound)
}
