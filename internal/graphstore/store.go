// Package graphstore is the Graph Store Adapter of spec.md §4.1: it
// isolates the rest of the core from the query language and storage layout
// of the underlying graph database. The production implementation binds to
// PostgreSQL via pgx (postgres.go); algorithmic traversal (shortest-path,
// K-shortest-paths, traverse) is computed by internal/pathengine over the
// in-memory graphmodel.Graph this adapter loads — the store's job ends at
// "hand back a consistent snapshot of the requested collection".
package graphstore

import (
	"context"

	"jalapeno/internal/graphmodel"
)

// CollectionKind distinguishes document (vertex) collections from edge
// collections, mirroring the source system's ArangoDB-style distinction.
type CollectionKind string

const (
	CollectionDocument CollectionKind = "document"
	CollectionEdge     CollectionKind = "edge"
)

// CollectionMeta describes one known collection.
type CollectionMeta struct {
	Name   string
	Kind   CollectionKind
	Status string
	Count  int64
}

// Endpoint is a candidate document for RPO selection: an opaque attribute
// bag keyed by metric name (spec.md §4.6).
type Endpoint struct {
	ID    graphmodel.VertexID
	Attrs map[string]any
}

// Store is the adapter surface every other internal package depends on.
// Implementations must treat collection names as identifiers checked against
// KnownCollections (collections.go), never string-concatenated into SQL text
// (spec.md §9 "Query generation").
type Store interface {
	HasCollection(ctx context.Context, name string) (bool, error)
	ListCollections(ctx context.Context) ([]CollectionMeta, error)

	GetVertex(ctx context.Context, collection, key string) (*graphmodel.Vertex, error)
	GetEdge(ctx context.Context, collection, key string) (*graphmodel.Edge, error)

	ListVertices(ctx context.Context, collection string, limit, skip int) ([]*graphmodel.Vertex, error)
	ListVerticesByAlgo(ctx context.Context, collection string, algo uint32) ([]*graphmodel.Vertex, error)
	ListEdges(ctx context.Context, collection string, limit int) ([]*graphmodel.Edge, error)

	// LoadGraph materializes the full in-memory working graph for the named
	// edge collection: every edge plus the vertices its endpoints reference.
	// internal/pathengine runs its search entirely over the returned value.
	LoadGraph(ctx context.Context, collection string) (*graphmodel.Graph, error)

	// UpdateEdgeLoad writes back a new load value for a single edge; used
	// only by internal/loadupdate, never inside a transaction (spec.md §4.5
	// requires non-atomic, racy-by-design last-writer-wins semantics).
	UpdateEdgeLoad(ctx context.Context, collection, key string, newLoad int64) error

	// ScanEndpoints lists every document in an RPO endpoint collection, or a
	// caller-supplied subset by key.
	ScanEndpoints(ctx context.Context, collection string, keys []string, limit int) ([]Endpoint, error)

	Close()
	HealthCheck(ctx context.Context) error
}
