package httpapi

import "net/http"

// openAPIDocument is a small hand-written OpenAPI description of the REST
// surface registered in routes.go. Adapted from pkg/swagger/swagger.go's
// Handler, which serves a generated spec file plus a templated Swagger UI
// page; this rewrite has no proto-derived spec generator to point at, so it
// serves the document directly instead of fronting it with a UI shell.
var openAPIDocument = map[string]any{
	"openapi": "3.0.3",
	"info": map[string]any{
		"title":   "Jalapeno Path Service API",
		"version": "1.0.0",
	},
	"paths": map[string]any{
		"/health":    map[string]any{"get": map[string]any{"summary": "Liveness check"}},
		"/readyz":    map[string]any{"get": map[string]any{"summary": "Readiness check"}},
		"/instances": map[string]any{"get": map[string]any{"summary": "List graph collections"}},
		"/collections": map[string]any{"get": map[string]any{
			"summary":    "List known collections",
			"parameters": []string{"filter_graphs"},
		}},
		"/collections/{name}": map[string]any{"get": map[string]any{
			"summary":    "List documents in a collection",
			"parameters": []string{"limit", "skip", "filter_key"},
		}},
		"/graphs/{collection}/shortest_path": map[string]any{"get": map[string]any{
			"summary":    "Unweighted shortest path with SRv6 uSID carrier",
			"parameters": []string{"source", "destination", "direction", "algo"},
		}},
		"/graphs/{collection}/shortest_path/latency": map[string]any{"get": map[string]any{
			"summary": "Latency-weighted shortest path",
		}},
		"/graphs/{collection}/shortest_path/best-paths": map[string]any{"get": map[string]any{
			"summary":    "Up to limit ranked candidate paths",
			"parameters": []string{"limit"},
		}},
		"/rpo/{collection}/select-optimal": map[string]any{"get": map[string]any{
			"summary":    "RPO endpoint selection by closed metric table",
			"parameters": []string{"source", "metric", "value", "graphs", "direction", "algo"},
		}},
	},
}

// handleOpenAPI serves the OpenAPI document describing this surface.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openAPIDocument)
}
