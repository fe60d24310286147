package httpapi

import (
	"net/http"

	"jalapeno/internal/metrics"
)

// route registers pattern on mux, running h through the standard
// middleware chain keyed by pattern (so rate limiting, logging, and
// tracing are all attributed to the route template, not the raw path).
func route(mux *http.ServeMux, s *Server, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, Chain(pattern, h, s.Limiter, s.RouteLimits))
}

// RegisterRoutes wires every endpoint of spec.md §6 plus SPEC_FULL.md §6's
// ambient additions onto mux.
func RegisterRoutes(mux *http.ServeMux, s *Server) {
	// Ambient: liveness/readiness/metrics, registered directly (no rate
	// limit, no audit) the way gateway-svc/cmd/main.go wires /health and
	// /ready straight onto its mux.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if s.Config.Metrics.Enabled {
		mux.Handle("GET "+s.Config.Metrics.Path, metrics.Handler())
	}
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)

	// Instance / collection inventory.
	route(mux, s, "GET /instances", s.handleInstances)
	route(mux, s, "GET /collections", s.handleCollections)
	route(mux, s, "GET /collections/{name}", s.handleCollectionDocs)
	route(mux, s, "GET /collections/{name}/keys", s.handleCollectionKeys)
	route(mux, s, "GET /collections/{name}/info", s.handleCollectionInfo)

	// Graph inventory.
	route(mux, s, "GET /graphs", s.handleGraphs)
	route(mux, s, "GET /graphs/{collection}/vertices", s.handleVertices)
	route(mux, s, "GET /graphs/{collection}/vertices/algo", s.handleVerticesByAlgo)
	route(mux, s, "GET /graphs/{collection}/vertices/summary", s.handleVerticesSummary)
	route(mux, s, "GET /graphs/{collection}/edges", s.handleEdges)
	route(mux, s, "GET /graphs/{collection}/edges/detail", s.handleEdgesDetail)
	route(mux, s, "GET /graphs/{collection}/topology", s.handleTopology)
	route(mux, s, "GET /graphs/{collection}/topology/nodes", s.handleTopologyNodes)
	route(mux, s, "GET /graphs/{collection}/topology/nodes/algo", s.handleTopologyNodesAlgo)

	// Path Engine.
	route(mux, s, "GET /graphs/{collection}/shortest_path", s.handleShortestPath)
	route(mux, s, "GET /graphs/{collection}/shortest_path/latency", s.handleShortestPathLatency)
	route(mux, s, "GET /graphs/{collection}/shortest_path/utilization", s.handleShortestPathUtilization)
	route(mux, s, "GET /graphs/{collection}/shortest_path/load", s.handleShortestPathLoad)
	route(mux, s, "GET /graphs/{collection}/shortest_path/sovereignty", s.handleShortestPathSovereignty)
	route(mux, s, "GET /graphs/{collection}/shortest_path/best-paths", s.handleBestPaths)
	route(mux, s, "GET /graphs/{collection}/shortest_path/next-best-path", s.handleNextBestPath)

	// Traversal.
	route(mux, s, "GET /graphs/{collection}/traverse", s.handleTraverse)
	route(mux, s, "GET /graphs/{collection}/traverse/simple", s.handleTraverseSimple)
	route(mux, s, "GET /graphs/{collection}/neighbors", s.handleNeighbors)

	// VPN projections.
	route(mux, s, "GET /vpns", s.handleVPNs)
	route(mux, s, "GET /vpns/{collection}/prefixes", s.handleVPNPrefixes)
	route(mux, s, "GET /vpns/{collection}/prefixes/{key}", s.handleVPNPrefix)

	// RPO Selector.
	route(mux, s, "GET /rpo", s.handleRPOMetrics)
	route(mux, s, "GET /rpo/{collection}", s.handleRPOEndpoints)
	route(mux, s, "GET /rpo/{collection}/select-optimal", s.handleRPOSelectOptimal)
	route(mux, s, "GET /rpo/{collection}/select-from-list", s.handleRPOSelectFromList)

	// Export (ambient addition).
	route(mux, s, "GET /reports/{collection}/path", s.handleReportPath)
}
