package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys.
const (
	// Graph
	AttrGraphVertices = "graph.vertices"
	AttrGraphEdges    = "graph.edges"
	AttrGraphSourceID = "graph.source_id"
	AttrGraphTargetID = "graph.target_id"

	// Path engine
	AttrAlgorithm    = "path.algorithm"
	AttrDirection    = "path.direction"
	AttrWeight       = "path.weight"
	AttrHopCount     = "path.hop_count"
	AttrPathsFound   = "path.paths_found"
	AttrCandidatesK  = "path.candidates_k"
	AttrConstrained  = "path.constrained"

	// Load update
	AttrLoadIncrement = "load.increment"
	AttrEdgeCount     = "load.edge_count"
	AttrHighestLoad   = "load.highest_load"

	// RPO selection
	AttrRPOMetric   = "rpo.metric"
	AttrRPOStrategy = "rpo.strategy"
)

// GraphAttributes returns attributes describing a loaded graph and its
// requested source/target vertices.
func GraphAttributes(vertices, edges int, sourceID, targetID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphVertices, vertices),
		attribute.Int(AttrGraphEdges, edges),
		attribute.String(AttrGraphSourceID, sourceID),
		attribute.String(AttrGraphTargetID, targetID),
	}
}

// PathAttributes returns attributes describing one path-engine invocation.
func PathAttributes(algorithm, direction, weight string, hopCount int, found bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, algorithm),
		attribute.String(AttrDirection, direction),
		attribute.String(AttrWeight, weight),
		attribute.Int(AttrHopCount, hopCount),
		attribute.Bool(AttrPathsFound, found),
	}
}

// LoadUpdateAttributes returns attributes describing one load-update pass.
func LoadUpdateAttributes(increment int64, edgeCount int, highestLoad int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(AttrLoadIncrement, increment),
		attribute.Int(AttrEdgeCount, edgeCount),
		attribute.Int64(AttrHighestLoad, highestLoad),
	}
}

// RPOAttributes returns attributes describing one RPO selection.
func RPOAttributes(metric, strategy string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRPOMetric, metric),
		attribute.String(AttrRPOStrategy, strategy),
	}
}
